package events

// Topic constants for domain events emitted by the storefront.
const (
	TopicOrderSubmitted = "order.submitted"
	TopicSessionStarted = "session.started"
	TopicSessionEnded   = "session.ended"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicOrderSubmitted,
		TopicSessionStarted,
		TopicSessionEnded,
	}
}
