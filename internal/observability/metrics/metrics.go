package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead submission flow.
type LeadMetrics struct {
	submissionsTotal   *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	storeWritesTotal   *prometheus.CounterVec
	notifyLatency      *prometheus.HistogramVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadintake",
			Subsystem: "submissions",
			Name:      "total",
			Help:      "Total lead submissions by outcome",
		}, []string{"outcome"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadintake",
			Subsystem: "submissions",
			Name:      "validation_failures_total",
			Help:      "Total validation failures by field",
		}, []string{"field"}),
		storeWritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadintake",
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Total lead store writes by outcome",
		}, []string{"outcome"}),
		notifyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadintake",
			Subsystem: "notify",
			Name:      "latency_seconds",
			Help:      "Latency of lead notification delivery",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.validationFailures, m.storeWritesTotal, m.notifyLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveValidationFailure(field string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(field).Inc()
}

func (m *LeadMetrics) ObserveStoreWrite(outcome string) {
	if m == nil {
		return
	}
	m.storeWritesTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveNotification(ok bool, seconds float64) {
	if m == nil {
		return
	}
	status := "error"
	if ok {
		status = "ok"
	}
	m.notifyLatency.WithLabelValues(status).Observe(seconds)
}
