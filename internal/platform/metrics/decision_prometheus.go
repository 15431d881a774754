package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DecisionMetrics tracks authorization outcomes. A nil *DecisionMetrics is
// valid and records nothing.
type DecisionMetrics struct {
	decisions      *prometheus.CounterVec
	declineReasons *prometheus.CounterVec
	replays        *prometheus.CounterVec
	duration       *prometheus.HistogramVec
}

func newDecisionMetrics(reg prometheus.Registerer) *DecisionMetrics {
	mtc := &DecisionMetrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "network_decisions_total",
				Help:      "Number of network events decided by message type and outcome",
			},
			[]string{"message_type", "outcome"},
		),
		declineReasons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "network_decline_reasons_total",
				Help:      "Number of decline reasons returned to the network",
			},
			[]string{"reason"},
		),
		replays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "network_replays_total",
				Help:      "Number of redelivered network events answered from a stored outcome",
			},
			[]string{"source"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "network_decision_duration_seconds",
				Help:      "Time taken to decide a network event",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"message_type"},
		),
	}

	reg.MustRegister(mtc.decisions)
	reg.MustRegister(mtc.declineReasons)
	reg.MustRegister(mtc.replays)
	reg.MustRegister(mtc.duration)

	return mtc
}

// Record counts one decision.
func (m *DecisionMetrics) Record(messageType string, approved bool, reasons []string, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "approved"
	if !approved {
		outcome = "declined"
	}
	m.decisions.WithLabelValues(messageType, outcome).Inc()
	for _, r := range reasons {
		m.declineReasons.WithLabelValues(r).Inc()
	}
	m.duration.WithLabelValues(messageType).Observe(took.Seconds())
}

func (m *DecisionMetrics) RecordReplay(source string) {
	if m == nil {
		return
	}
	m.replays.WithLabelValues(source).Inc()
}
