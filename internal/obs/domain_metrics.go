package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersSubmittedTotal counts order submission outcomes.
	OrdersSubmittedTotal *prometheus.CounterVec
	// CartMutationsTotal counts cart mutations by operation and outcome.
	CartMutationsTotal *prometheus.CounterVec
	// IdentityDecodeTotal counts external identity token decode outcomes.
	IdentityDecodeTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersSubmittedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Count of order submission outcomes.",
		}, []string{"role", "result"})
		CartMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of cart mutations by operation and outcome.",
		}, []string{"op", "result"})
		IdentityDecodeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_decode_total",
			Help:      "Count of external identity token decode outcomes.",
		}, []string{"result"})

		OrdersSubmittedTotal = registerCounterVec(reg, OrdersSubmittedTotal)
		CartMutationsTotal = registerCounterVec(reg, CartMutationsTotal)
		IdentityDecodeTotal = registerCounterVec(reg, IdentityDecodeTotal)
	})
}

// CountCartMutation records a cart mutation outcome when metrics are registered.
func CountCartMutation(op string, err error) {
	if CartMutationsTotal == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	CartMutationsTotal.WithLabelValues(op, result).Inc()
}
