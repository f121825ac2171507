package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead intake pipeline.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	leadScore        prometheus.Histogram
	intakeLatency    prometheus.Histogram
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lhweb",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome",
		}, []string{"outcome"}),
		leadScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lhweb",
			Subsystem: "leads",
			Name:      "score",
			Help:      "Score assigned to accepted leads",
			Buckets:   []float64{10, 20, 30, 40, 55, 70, 100},
		}),
		intakeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lhweb",
			Subsystem: "leads",
			Name:      "intake_latency_seconds",
			Help:      "Latency of accepted lead intake, end to end",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.leadScore, m.intakeLatency)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveScore(score int) {
	if m == nil {
		return
	}
	m.leadScore.Observe(float64(score))
}

func (m *LeadMetrics) ObserveIntakeLatency(seconds float64) {
	if m == nil {
		return
	}
	m.intakeLatency.Observe(seconds)
}
