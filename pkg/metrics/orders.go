package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// OrderMetrics tracks the reseller's order workflow actions.
type OrderMetrics struct {
	actions   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	shortfall *prometheus.CounterVec
}

// NewOrderMetrics registers the order workflow metrics on reg. A nil
// registerer yields a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "painel",
		Name:      "order_actions_total",
		Help:      "Order workflow actions by action and outcome.",
	}, []string{"action", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "painel",
		Name:      "order_action_duration_seconds",
		Help:      "Latency of order workflow actions.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"action"})
	shortfall := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "painel",
		Name:      "stock_shortfall_total",
		Help:      "Products reported as insufficient when an order was checked or accepted.",
	}, []string{"stage"})
	reg.MustRegister(actions, duration, shortfall)
	return &OrderMetrics{
		actions:   actions,
		duration:  duration,
		shortfall: shortfall,
	}
}

// Observe records one finished action.
func (m *OrderMetrics) Observe(action, outcome string, elapsed time.Duration) {
	if m == nil || m.actions == nil {
		return
	}
	action = normalizeLabel(action)
	m.actions.WithLabelValues(action, normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// AddShortfall counts products found insufficient at the given stage.
func (m *OrderMetrics) AddShortfall(stage string, products int) {
	if m == nil || m.shortfall == nil || products <= 0 {
		return
	}
	m.shortfall.WithLabelValues(normalizeLabel(stage)).Add(float64(products))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
