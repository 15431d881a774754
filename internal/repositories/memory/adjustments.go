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
	"github.com/SscSPs/card_ledger_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func (r *repo) SaveAdjustment(_ context.Context, adjustment domain.Adjustment) error {
	return r.with(func(d *state) error {
		for _, a := range d.adjustments {
			if a.ID == adjustment.ID {
				return fmt.Errorf("%w: adjustment %s", apperrors.ErrDuplicate, adjustment.ID)
			}
			if a.PostingID == adjustment.PostingID {
				return fmt.Errorf("%w: posting %s already has an adjustment", apperrors.ErrDuplicate, adjustment.PostingID)
			}
		}
		d.adjustments = append(d.adjustments, adjustment)
		return nil
	})
}

func (r *repo) FindAdjustmentsByJournalEntryID(_ context.Context, journalEntryID string) ([]domain.Adjustment, error) {
	var out []domain.Adjustment
	err := r.with(func(d *state) error {
		for _, a := range d.adjustments {
			if a.JournalEntryID == journalEntryID {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}

// ListAdjustmentsByAccount pages newest first by (EffectiveDate, ID).
func (r *repo) ListAdjustmentsByAccount(_ context.Context, accountID string, limit int, nextToken *string) (*portsrepo.AdjustmentPage, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, err
		}
		cursor = &c
	}

	var matched []domain.Adjustment
	err := r.with(func(d *state) error {
		for _, a := range d.adjustments {
			if a.AccountID != accountID {
				continue
			}
			if cursor != nil && !cursor.After(a.EffectiveDate, a.ID) {
				continue
			}
			matched = append(matched, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(matched, func(a, b domain.Adjustment) int {
		if c := b.EffectiveDate.Compare(a.EffectiveDate); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})

	page := &portsrepo.AdjustmentPage{Adjustments: matched}
	if limit > 0 && len(matched) > limit {
		page.Adjustments = matched[:limit]
		last := page.Adjustments[limit-1]
		token := pagination.EncodeCursor(last.EffectiveDate, last.ID)
		page.NextToken = &token
	}
	return page, nil
}

func (r *repo) SumAdjustments(_ context.Context, accountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.with(func(d *state) error {
		for _, a := range d.adjustments {
			if a.AccountID == accountID {
				sum = sum.Add(a.Amount.Value)
			}
		}
		return nil
	})
	return sum, err
}

func (r *repo) ListBusinessAdjustments(_ context.Context, businessID string, types []domain.AdjustmentType, since time.Time) ([]domain.Adjustment, error) {
	var out []domain.Adjustment
	err := r.with(func(d *state) error {
		for _, a := range d.adjustments {
			if a.BusinessID == businessID && slices.Contains(types, a.Type) && a.EffectiveDate.After(since) {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}

// ListSpendAdjustments returns card network activity plus reversals of it.
func (r *repo) ListSpendAdjustments(_ context.Context, filter portsrepo.SpendFilter) ([]domain.Adjustment, error) {
	var out []domain.Adjustment
	err := r.with(func(d *state) error {
		for _, a := range d.adjustments {
			if !a.Type.IsNetwork() && a.Type != domain.AdjustmentReversal {
				continue
			}
			if a.EffectiveDate.After(filter.Since) && matchesSpend(filter, a.BusinessID, a.AllocationID, a.CardID) {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}
