package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (r *repo) FindLedgerAccountByID(_ context.Context, ledgerAccountID string) (*domain.LedgerAccount, error) {
	var out *domain.LedgerAccount
	err := r.with(func(d *state) error {
		la, ok := d.ledgerAccounts[ledgerAccountID]
		if !ok {
			return fmt.Errorf("%w: ledger account %s", apperrors.ErrNotFound, ledgerAccountID)
		}
		out = &la
		return nil
	})
	return out, err
}

func (r *repo) FindSystemLedgerAccount(_ context.Context, t domain.LedgerAccountType, currency domain.Currency) (*domain.LedgerAccount, error) {
	var out *domain.LedgerAccount
	err := r.with(func(d *state) error {
		for _, la := range d.ledgerAccounts {
			if la.Type == t && la.Currency == currency {
				la := la
				out = &la
				return nil
			}
		}
		return fmt.Errorf("%w: %s ledger account for %s", apperrors.ErrNotFound, t, currency)
	})
	return out, err
}

func (r *repo) FindJournalEntryByID(_ context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := r.with(func(d *state) error {
		entry, ok := d.journalEntries[journalEntryID]
		if !ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, journalEntryID)
		}
		entry.Postings = slices.Clone(entry.Postings)
		out = &entry
		return nil
	})
	return out, err
}

func (r *repo) SumPostings(_ context.Context, ledgerAccountID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.with(func(d *state) error {
		for _, entry := range d.journalEntries {
			for _, p := range entry.Postings {
				if p.LedgerAccountID == ledgerAccountID {
					sum = sum.Add(p.Amount.Value)
				}
			}
		}
		return nil
	})
	return sum, err
}

// SaveLedgerAccount skips a second system ledger account for the same type
// and currency, like the partial unique index in postgres.
func (r *repo) SaveLedgerAccount(_ context.Context, ledgerAccount domain.LedgerAccount) error {
	return r.with(func(d *state) error {
		if _, ok := d.ledgerAccounts[ledgerAccount.ID]; ok {
			return fmt.Errorf("%w: ledger account %s", apperrors.ErrDuplicate, ledgerAccount.ID)
		}
		if ledgerAccount.Type.IsSystem() {
			for _, la := range d.ledgerAccounts {
				if la.Type == ledgerAccount.Type && la.Currency == ledgerAccount.Currency {
					return nil
				}
			}
		}
		d.ledgerAccounts[ledgerAccount.ID] = ledgerAccount
		return nil
	})
}

func (r *repo) SaveJournalEntry(_ context.Context, entry domain.JournalEntry) error {
	return r.with(func(d *state) error {
		if _, ok := d.journalEntries[entry.ID]; ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.ID)
		}
		for _, p := range entry.Postings {
			if _, ok := d.ledgerAccounts[p.LedgerAccountID]; !ok {
				return fmt.Errorf("%w: ledger account %s of posting %s", apperrors.ErrNotFound, p.LedgerAccountID, p.ID)
			}
		}
		entry.Postings = slices.Clone(entry.Postings)
		d.journalEntries[entry.ID] = entry
		return nil
	})
}

func (r *repo) MarkJournalEntryReversed(_ context.Context, originalID, reversalID string) error {
	return r.with(func(d *state) error {
		entry, ok := d.journalEntries[originalID]
		if !ok {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, originalID)
		}
		if entry.ReversalJournalEntryID != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyReversed, originalID)
		}
		id := reversalID
		entry.ReversalJournalEntryID = &id
		d.journalEntries[originalID] = entry
		return nil
	})
}
