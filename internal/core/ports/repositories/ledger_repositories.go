package repositories

import (
	"context"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader reads ledger accounts and journal entries.
type LedgerReader interface {
	FindLedgerAccountByID(ctx context.Context, ledgerAccountID string) (*domain.LedgerAccount, error)
	FindSystemLedgerAccount(ctx context.Context, t domain.LedgerAccountType, currency domain.Currency) (*domain.LedgerAccount, error)
	FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
	SumPostings(ctx context.Context, ledgerAccountID string) (decimal.Decimal, error)
}

// LedgerWriter appends to the ledger. Postings are never updated.
type LedgerWriter interface {
	SaveLedgerAccount(ctx context.Context, ledgerAccount domain.LedgerAccount) error
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error
	// MarkJournalEntryReversed links original to reversal only if original has
	// no reversal yet, returning apperrors.ErrAlreadyReversed otherwise.
	MarkJournalEntryReversed(ctx context.Context, originalID, reversalID string) error
}

type LedgerRepository interface {
	LedgerReader
	LedgerWriter
}
