package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes of checkout submissions.
type CheckoutMetrics struct {
	duration prometheus.Histogram
	attempts prometheus.Counter
	failures *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	attempts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_attempts",
		Help: "Checkout submissions received.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures",
		Help: "Rejected or failed checkout submissions.",
	}, []string{"reason"})
	reg.MustRegister(duration, attempts, failures)
	return &CheckoutMetrics{
		duration: duration,
		attempts: attempts,
		failures: failures,
	}
}

// ObserveDuration records how long a checkout submission took.
func (c *CheckoutMetrics) ObserveDuration(duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.Observe(duration.Seconds())
}

// IncAttempt counts a checkout submission.
func (c *CheckoutMetrics) IncAttempt() {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.Inc()
}

// IncFailure counts a failed submission under the given reason.
func (c *CheckoutMetrics) IncFailure(reason string) {
	if c == nil || c.failures == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	c.failures.WithLabelValues(reason).Inc()
}
