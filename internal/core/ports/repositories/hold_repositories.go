package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

// SpendFilter selects card activity counted against purchase limits.
// Exactly one of CardID or AllocationID is normally set.
type SpendFilter struct {
	BusinessID   string
	AllocationID *string
	CardID       *string
	Since        time.Time
}

type HoldRepository interface {
	SaveHold(ctx context.Context, hold domain.Hold) error
	FindHoldByID(ctx context.Context, holdID string) (*domain.Hold, error)
	// FindActiveHolds returns PLACED holds for the account expiring after asOf.
	FindActiveHolds(ctx context.Context, accountID string, asOf time.Time) ([]domain.Hold, error)
	// UpdateHoldStatus moves a hold from PLACED to status, returning
	// apperrors.ErrInvalidHoldTransition if it already left PLACED.
	UpdateHoldStatus(ctx context.Context, holdID string, status domain.HoldStatus, updatedBy string, updatedAt time.Time) error
	// ListExpiredHolds returns up to limit PLACED holds whose expiration is at or before asOf.
	ListExpiredHolds(ctx context.Context, asOf time.Time, limit int) ([]domain.Hold, error)
	ListActiveSpendHolds(ctx context.Context, filter SpendFilter, asOf time.Time) ([]domain.Hold, error)
}
