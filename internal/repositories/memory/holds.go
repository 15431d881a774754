package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
)

func sortHoldsByCreation(holds []domain.Hold) {
	slices.SortFunc(holds, func(a, b domain.Hold) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func (r *repo) SaveHold(_ context.Context, hold domain.Hold) error {
	return r.with(func(d *state) error {
		if _, ok := d.holds[hold.ID]; ok {
			return fmt.Errorf("%w: hold %s", apperrors.ErrDuplicate, hold.ID)
		}
		d.holds[hold.ID] = hold
		return nil
	})
}

func (r *repo) FindHoldByID(_ context.Context, holdID string) (*domain.Hold, error) {
	var out *domain.Hold
	err := r.with(func(d *state) error {
		h, ok := d.holds[holdID]
		if !ok {
			return fmt.Errorf("%w: hold %s", apperrors.ErrNotFound, holdID)
		}
		out = &h
		return nil
	})
	return out, err
}

func (r *repo) FindActiveHolds(_ context.Context, accountID string, asOf time.Time) ([]domain.Hold, error) {
	var out []domain.Hold
	err := r.with(func(d *state) error {
		for _, h := range d.holds {
			if h.AccountID == accountID && h.IsActive(asOf) {
				out = append(out, h)
			}
		}
		return nil
	})
	sortHoldsByCreation(out)
	return out, err
}

func (r *repo) UpdateHoldStatus(_ context.Context, holdID string, status domain.HoldStatus, updatedBy string, updatedAt time.Time) error {
	return r.with(func(d *state) error {
		h, ok := d.holds[holdID]
		if !ok {
			return fmt.Errorf("%w: hold %s", apperrors.ErrNotFound, holdID)
		}
		if h.Status != domain.HoldPlaced {
			return fmt.Errorf("%w: hold %s is %s", apperrors.ErrInvalidHoldTransition, holdID, h.Status)
		}
		h.Status = status
		domain.StampUpdated(&h.AuditFields, updatedBy, updatedAt)
		d.holds[holdID] = h
		return nil
	})
}

func (r *repo) ListExpiredHolds(_ context.Context, asOf time.Time, limit int) ([]domain.Hold, error) {
	var out []domain.Hold
	err := r.with(func(d *state) error {
		for _, h := range d.holds {
			if h.IsExpiredAt(asOf) {
				out = append(out, h)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Hold) int {
		if c := a.ExpirationDate.Compare(b.ExpirationDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func matchesSpend(f portsrepo.SpendFilter, businessID string, allocationID, cardID *string) bool {
	if businessID != f.BusinessID || cardID == nil {
		return false
	}
	if f.CardID != nil && *cardID != *f.CardID {
		return false
	}
	if f.AllocationID != nil && (allocationID == nil || *allocationID != *f.AllocationID) {
		return false
	}
	return true
}

func (r *repo) ListActiveSpendHolds(_ context.Context, filter portsrepo.SpendFilter, asOf time.Time) ([]domain.Hold, error) {
	var out []domain.Hold
	err := r.with(func(d *state) error {
		for _, h := range d.holds {
			if h.IsActive(asOf) && h.CreatedAt.After(filter.Since) && matchesSpend(filter, h.BusinessID, h.AllocationID, h.CardID) {
				out = append(out, h)
			}
		}
		return nil
	})
	sortHoldsByCreation(out)
	return out, err
}
