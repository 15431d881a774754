package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics tracks ledger writes and hold housekeeping. A nil
// *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	txRetries    *prometheus.CounterVec
	adjustments  *prometheus.CounterVec
	holdsExpired prometheus.Counter
}

func newLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	mtc := &LedgerMetrics{
		txRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_tx_retries_total",
				Help:      "Number of ledger units of work replayed after a concurrency conflict",
			},
			[]string{"operation"},
		),
		adjustments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "adjustments_total",
				Help:      "Number of adjustments posted by type",
			},
			[]string{"adjustment_type"},
		),
		holdsExpired: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "holds_expired_total",
				Help:      "Number of holds moved to EXPIRED by the sweeper",
			},
		),
	}

	reg.MustRegister(mtc.txRetries)
	reg.MustRegister(mtc.adjustments)
	reg.MustRegister(mtc.holdsExpired)

	return mtc
}

func (m *LedgerMetrics) RecordRetry(operation string) {
	if m == nil {
		return
	}
	m.txRetries.WithLabelValues(FlattenName(operation)).Inc()
}

func (m *LedgerMetrics) RecordAdjustment(adjustmentType string) {
	if m == nil {
		return
	}
	m.adjustments.WithLabelValues(adjustmentType).Inc()
}

func (m *LedgerMetrics) RecordHoldsExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.holdsExpired.Add(float64(n))
}
