package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "card_ledger"

// Metrics groups every collector the service exports.
type Metrics struct {
	Ledger    *LedgerMetrics
	Decisions *DecisionMetrics
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Ledger:    newLedgerMetrics(reg),
		Decisions: newDecisionMetrics(reg),
	}
}

// FlattenName turns free text into a metric-safe label value.
func FlattenName(name string) string {
	return strings.NewReplacer(" ", "_", ".", "_", "-", "_", "=", "_", "/", "_").Replace(strings.ToLower(name))
}
