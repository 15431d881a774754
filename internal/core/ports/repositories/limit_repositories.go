package repositories

import (
	"context"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

type LimitRepository interface {
	// FindTransactionLimit returns apperrors.ErrNotFound when nothing is configured.
	FindTransactionLimit(ctx context.Context, businessID string, ownerType domain.LimitOwnerType, ownerID string) (*domain.TransactionLimit, error)
	SaveTransactionLimit(ctx context.Context, limit domain.TransactionLimit) error
	FindBusinessLimit(ctx context.Context, businessID string) (*domain.BusinessLimit, error)
	SaveBusinessLimit(ctx context.Context, limit domain.BusinessLimit) error
}
