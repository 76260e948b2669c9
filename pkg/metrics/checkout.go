package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records settlement and ledger outcomes.
type CheckoutMetrics struct {
	appendDuration *prometheus.HistogramVec
	salesRecorded  prometheus.Counter
	appendFailures *prometheus.CounterVec
	rejected       *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	appendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_append_duration_seconds",
		Help:    "Duration of sale ledger appends in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})
	salesRecorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sales_recorded_total",
		Help: "Completed sales committed to the ledger.",
	})
	appendFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_append_failures_total",
		Help: "Sale ledger appends that surfaced a backend error.",
	}, []string{"backend"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_rejected_total",
		Help: "Checkout confirmations rejected before reaching the ledger.",
	}, []string{"reason"})
	reg.MustRegister(appendDuration, salesRecorded, appendFailures, rejected)
	return &CheckoutMetrics{
		appendDuration: appendDuration,
		salesRecorded:  salesRecorded,
		appendFailures: appendFailures,
		rejected:       rejected,
	}
}

// ObserveAppend records the duration of a ledger append for the named backend.
func (c *CheckoutMetrics) ObserveAppend(backend string, duration time.Duration) {
	if c == nil || c.appendDuration == nil {
		return
	}
	c.appendDuration.WithLabelValues(normalizeLabel(backend)).Observe(duration.Seconds())
}

// IncRecorded increments the completed-sale counter.
func (c *CheckoutMetrics) IncRecorded() {
	if c == nil || c.salesRecorded == nil {
		return
	}
	c.salesRecorded.Inc()
}

// IncAppendFailure increments the append-failure counter for the named backend.
func (c *CheckoutMetrics) IncAppendFailure(backend string) {
	if c == nil || c.appendFailures == nil {
		return
	}
	c.appendFailures.WithLabelValues(normalizeLabel(backend)).Inc()
}

// IncRejected increments the rejected-checkout counter for the given reason.
func (c *CheckoutMetrics) IncRejected(reason string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
