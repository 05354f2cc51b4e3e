package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Event is an in-process domain event. Events are fanned out to notifiers
// and are not persisted.
type Event struct {
	Topic      string
	SessionID  string
	Payload    map[string]any
	OccurredAt time.Time
}

// Notifier reacts to emitted events (e.g. logging, metrics).
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Bus fans emitted events out to its notifiers.
type Bus struct {
	Notifiers []Notifier
	Now       func() time.Time
}

// Emit dispatches the event to all configured notifiers. Notifier failures
// are joined and returned but do not stop the fan-out.
func (b *Bus) Emit(ctx context.Context, topic, sessionID string, payload map[string]any) error {
	if b == nil {
		return errors.New("events: bus not configured")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return errors.New("events: topic is required")
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	ev := Event{
		Topic:      topic,
		SessionID:  sessionID,
		Payload:    payload,
		OccurredAt: now(),
	}
	var joined error
	for _, notifier := range b.Notifiers {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, ev); err != nil {
			joined = errors.Join(joined, fmt.Errorf("events: notifier: %w", err))
		}
	}
	return joined
}

// LogNotifier writes emitted events to the structured log.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	n.Logger.Info().
		Str("topic", event.Topic).
		Str("session_id", event.SessionID).
		Time("occurred_at", event.OccurredAt).
		Fields(map[string]any{"payload": event.Payload}).
		Msg("domain event")
	return nil
}

// MetricsNotifier counts emitted events by topic.
type MetricsNotifier struct {
	Counter *prometheus.CounterVec
}

// NewMetricsNotifier registers the event counter on reg, reusing an existing
// collector when one is already registered.
func NewMetricsNotifier(namespace string, reg prometheus.Registerer) *MetricsNotifier {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "domain_events_total",
		Help:      "Domain events emitted, by topic.",
	}, []string{"topic"})
	if err := reg.Register(counter); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			counter = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			panic(err)
		}
	}
	return &MetricsNotifier{Counter: counter}
}

func (n *MetricsNotifier) Notify(_ context.Context, event Event) error {
	if n == nil || n.Counter == nil {
		return nil
	}
	n.Counter.WithLabelValues(event.Topic).Inc()
	return nil
}
