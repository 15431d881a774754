package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AdjustmentPage is one page of an account's adjustments, newest first.
type AdjustmentPage struct {
	Adjustments []domain.Adjustment
	NextToken   *string
}

type AdjustmentRepository interface {
	SaveAdjustment(ctx context.Context, adjustment domain.Adjustment) error
	FindAdjustmentsByJournalEntryID(ctx context.Context, journalEntryID string) ([]domain.Adjustment, error)
	ListAdjustmentsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) (*AdjustmentPage, error)
	SumAdjustments(ctx context.Context, accountID string) (decimal.Decimal, error)
	ListBusinessAdjustments(ctx context.Context, businessID string, types []domain.AdjustmentType, since time.Time) ([]domain.Adjustment, error)
	ListSpendAdjustments(ctx context.Context, filter SpendFilter) ([]domain.Adjustment, error)
}
