package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

// stored drops the in-memory hold set so it never leaks between readers.
func stored(a domain.Account) domain.Account {
	return domain.Account{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		AllocationID:    a.AllocationID,
		LedgerAccountID: a.LedgerAccountID,
		Type:            a.Type,
		OwnerID:         a.OwnerID,
		LedgerBalance:   a.LedgerBalance,
		AuditFields:     a.AuditFields,
	}
}

func (r *repo) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := r.with(func(d *state) error {
		a, ok := d.accounts[accountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		out = &a
		return nil
	})
	return out, err
}

// FindAccountForUpdate needs no row lock: units of work are already serial.
func (r *repo) FindAccountForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.FindAccountByID(ctx, accountID)
}

func (r *repo) FindAccountsForUpdate(_ context.Context, accountIDs []string) (map[string]*domain.Account, error) {
	out := make(map[string]*domain.Account, len(accountIDs))
	err := r.with(func(d *state) error {
		ids := slices.Clone(accountIDs)
		slices.Sort(ids)
		for _, id := range slices.Compact(ids) {
			a, ok := d.accounts[id]
			if !ok {
				return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
			}
			out[id] = &a
		}
		return nil
	})
	return out, err
}

func (r *repo) SaveAccount(_ context.Context, account domain.Account) error {
	return r.with(func(d *state) error {
		if _, ok := d.accounts[account.ID]; ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.ID)
		}
		if _, ok := d.ledgerAccounts[account.LedgerAccountID]; !ok {
			return fmt.Errorf("%w: ledger account %s", apperrors.ErrNotFound, account.LedgerAccountID)
		}
		d.accounts[account.ID] = stored(account)
		return nil
	})
}

func (r *repo) UpdateLedgerBalance(_ context.Context, accountID string, balance domain.Amount, updatedBy string, updatedAt time.Time) error {
	return r.with(func(d *state) error {
		a, ok := d.accounts[accountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		if balance.Currency != a.LedgerBalance.Currency {
			return fmt.Errorf("%w: %s balance for %s account", apperrors.ErrCurrencyMismatch, balance.Currency, a.LedgerBalance.Currency)
		}
		a.LedgerBalance = balance
		domain.StampUpdated(&a.AuditFields, updatedBy, updatedAt)
		d.accounts[accountID] = a
		return nil
	})
}
