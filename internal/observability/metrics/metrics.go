package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead capture flow.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	upsertsTotal     *prometheus.CounterVec
	handlerLatency   prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toda",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Total lead endpoint invocations by outcome",
		}, []string{"outcome"}),
		upsertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "toda",
			Subsystem: "leads",
			Name:      "upserts_total",
			Help:      "Total store writes by action",
		}, []string{"action"}),
		handlerLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "toda",
			Subsystem: "leads",
			Name:      "handler_latency_seconds",
			Help:      "Latency of lead endpoint processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.upsertsTotal, m.handlerLatency)
	return m
}

// ObserveSubmission records one endpoint invocation with its outcome
// (accepted, invalid, bad_json, method_not_allowed, upstream_error, forced_error).
func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveUpsert records one store write (created or updated).
func (m *LeadMetrics) ObserveUpsert(action string) {
	if m == nil {
		return
	}
	m.upsertsTotal.WithLabelValues(action).Inc()
}

// ObserveHandlerLatency records how long one invocation took.
func (m *LeadMetrics) ObserveHandlerLatency(seconds float64) {
	if m == nil {
		return
	}
	m.handlerLatency.Observe(seconds)
}
