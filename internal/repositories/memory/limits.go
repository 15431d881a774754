package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

func txLimitKey(businessID string, ownerType domain.LimitOwnerType, ownerID string) string {
	return businessID + "/" + string(ownerType) + "/" + ownerID
}

func (r *repo) FindTransactionLimit(_ context.Context, businessID string, ownerType domain.LimitOwnerType, ownerID string) (*domain.TransactionLimit, error) {
	var out *domain.TransactionLimit
	err := r.with(func(d *state) error {
		l, ok := d.txLimits[txLimitKey(businessID, ownerType, ownerID)]
		if !ok {
			return fmt.Errorf("%w: %s limit for %s", apperrors.ErrNotFound, ownerType, ownerID)
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *repo) SaveTransactionLimit(_ context.Context, limit domain.TransactionLimit) error {
	return r.with(func(d *state) error {
		d.txLimits[txLimitKey(limit.BusinessID, limit.OwnerType, limit.OwnerID)] = limit
		return nil
	})
}

func (r *repo) FindBusinessLimit(_ context.Context, businessID string) (*domain.BusinessLimit, error) {
	var out *domain.BusinessLimit
	err := r.with(func(d *state) error {
		l, ok := d.businessLimits[businessID]
		if !ok {
			return fmt.Errorf("%w: business limit for %s", apperrors.ErrNotFound, businessID)
		}
		out = &l
		return nil
	})
	return out, err
}

func (r *repo) SaveBusinessLimit(_ context.Context, limit domain.BusinessLimit) error {
	return r.with(func(d *state) error {
		d.businessLimits[limit.BusinessID] = limit
		return nil
	})
}
