package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records counters for cart engine operations.
type CartMetrics struct {
	duration        *prometheus.HistogramVec
	operations      *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	hydrationResets prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of cart engine operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart engine operations by op and result.",
	}, []string{"op", "result"})
	persistFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Cart persistence write failures by op.",
	}, []string{"op"})
	hydrationResets := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_hydration_resets_total",
		Help: "Loads that fell back to an empty cart due to missing or corrupt state.",
	})
	reg.MustRegister(duration, operations, persistFailures, hydrationResets)
	return &CartMetrics{
		duration:        duration,
		operations:      operations,
		persistFailures: persistFailures,
		hydrationResets: hydrationResets,
	}
}

// ObserveDuration records the duration for the named operation.
func (c *CartMetrics) ObserveDuration(op string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (c *CartMetrics) IncSuccess(op string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(op), "success").Inc()
}

// IncFailure increments the failure counter for the named operation.
func (c *CartMetrics) IncFailure(op string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(op), "failure").Inc()
}

// IncPersistFailure counts a persistence write that could not be completed.
func (c *CartMetrics) IncPersistFailure(op string) {
	if c == nil || c.persistFailures == nil {
		return
	}
	c.persistFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncHydrationReset counts a load that degraded to an empty cart.
func (c *CartMetrics) IncHydrationReset() {
	if c == nil || c.hydrationResets == nil {
		return
	}
	c.hydrationResets.Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
