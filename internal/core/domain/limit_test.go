package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateLimit(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	monthly := map[domain.LimitPeriod]decimal.Decimal{domain.LimitMonthly: decimal.NewFromInt(10)}

	spent := []domain.LimitUsage{
		{EffectiveDate: now.Add(-20 * 24 * time.Hour), Amount: usd("-5")},
		{EffectiveDate: now.Add(-2 * time.Hour), Amount: usd("-3")},
	}

	tests := []struct {
		name       string
		proposed   domain.Amount
		history    []domain.LimitUsage
		ceilings   map[domain.LimitPeriod]decimal.Decimal
		allowed    bool
		wantPeriod domain.LimitPeriod
	}{
		{name: "exactly at the ceiling", proposed: usd("-2.00"), history: spent, ceilings: monthly, allowed: true},
		{name: "one cent over", proposed: usd("-2.01"), history: spent, ceilings: monthly, wantPeriod: domain.LimitMonthly},
		{
			name:     "outside the window is ignored",
			proposed: usd("-9"),
			history:  []domain.LimitUsage{{EffectiveDate: now.Add(-31 * 24 * time.Hour), Amount: usd("-8")}},
			ceilings: monthly,
			allowed:  true,
		},
		{
			name:     "other currency is ignored",
			proposed: usd("-2.01"),
			history:  []domain.LimitUsage{{EffectiveDate: now.Add(-time.Hour), Amount: eur("-8")}},
			ceilings: monthly,
			allowed:  true,
		},
		{
			name:     "refund reduces usage",
			proposed: usd("-4"),
			history:  append(append([]domain.LimitUsage{}, spent...), domain.LimitUsage{EffectiveDate: now.Add(-time.Hour), Amount: usd("2")}),
			ceilings: monthly,
			allowed:  true,
		},
		{
			name:     "daily ceiling is independent of monthly",
			proposed: usd("-2"),
			history:  spent,
			ceilings: map[domain.LimitPeriod]decimal.Decimal{
				domain.LimitDaily:   decimal.NewFromInt(4),
				domain.LimitMonthly: decimal.NewFromInt(100),
			},
			wantPeriod: domain.LimitDaily,
		},
		{
			name:     "positive deposits count the same way",
			proposed: usd("2.01"),
			history:  []domain.LimitUsage{{EffectiveDate: now.Add(-time.Hour), Amount: usd("8")}},
			ceilings: monthly,
			wantPeriod: domain.LimitMonthly,
		},
		{name: "no ceilings configured", proposed: usd("-1000"), history: spent, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := domain.EvaluateLimit("owner-1", domain.LimitPurchase, tt.proposed, tt.history, tt.ceilings, now)
			assert.Equal(t, tt.allowed, result.Allowed())
			if tt.allowed {
				assert.Nil(t, result.Violation)
				return
			}
			require.NotNil(t, result.Violation)
			assert.Equal(t, tt.wantPeriod, result.Violation.Period)
			assert.Equal(t, "owner-1", result.Violation.OwnerID)
		})
	}
}
