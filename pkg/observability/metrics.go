package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Transition outcomes reported by the flow controller.
const (
	OutcomeAdvanced  = "advanced"
	OutcomeCompleted = "completed"
	OutcomeRejected  = "rejected"
)

// Metrics holds the engine's Prometheus collectors. A nil *Metrics is a
// valid no-op receiver so instrumentation stays optional.
type Metrics struct {
	transitions    *prometheus.CounterVec
	oracleRequests *prometheus.CounterVec
	oracleLatency  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "transitions_total",
			Help:      "Wizard step transitions by wizard ID and outcome.",
		}, []string{"wizard_id", "outcome"}),
		oracleRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "oracle_requests_total",
			Help:      "Rule oracle invocations by status (ok, error, protocol).",
		}, []string{"status"}),
		oracleLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "intake",
			Name:      "oracle_duration_seconds",
			Help:      "Latency of batched rule oracle calls.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	reg.MustRegister(m.transitions, m.oracleRequests, m.oracleLatency)
	return m
}

// ObserveTransition records a step transition outcome.
func (m *Metrics) ObserveTransition(wizardID, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(wizardID, outcome).Inc()
}

// ObserveOracle records one batched oracle call.
func (m *Metrics) ObserveOracle(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.oracleRequests.WithLabelValues(status).Inc()
	m.oracleLatency.Observe(elapsed.Seconds())
}
