package metrics

import "github.com/prometheus/client_golang/prometheus"

// SessionMetrics exposes counters/histograms for conversation sessions.
type SessionMetrics struct {
	submissionsTotal *prometheus.CounterVec
	rejectionsTotal  *prometheus.CounterVec
	analysisLatency  *prometheus.HistogramVec
	inFlight         prometheus.Gauge
	activeSessions   prometheus.Gauge
}

func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	m := &SessionMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legals",
			Subsystem: "session",
			Name:      "submissions_total",
			Help:      "Settled submissions by outcome",
		}, []string{"outcome"}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "legals",
			Subsystem: "session",
			Name:      "rejections_total",
			Help:      "Submissions ignored by the input guard",
		}, []string{"reason"}),
		analysisLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "legals",
			Subsystem: "session",
			Name:      "analysis_latency_seconds",
			Help:      "Time from submission to settlement",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"outcome"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "legals",
			Subsystem: "session",
			Name:      "in_flight",
			Help:      "Submissions currently waiting on the analysis service",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "legals",
			Subsystem: "session",
			Name:      "active",
			Help:      "Conversations currently held in memory",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.rejectionsTotal, m.analysisLatency, m.inFlight, m.activeSessions)
	return m
}

func (m *SessionMetrics) ObserveSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
	m.analysisLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *SessionMetrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}

func (m *SessionMetrics) IncInFlight() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *SessionMetrics) DecInFlight() {
	if m == nil {
		return
	}
	m.inFlight.Dec()
}

func (m *SessionMetrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *SessionMetrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
