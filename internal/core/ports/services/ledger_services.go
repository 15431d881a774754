package services

import (
	"context"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

// LedgerSvcFacade exposes read and reversal operations on the ledger.
type LedgerSvcFacade interface {
	GetLedgerAccount(ctx context.Context, ledgerAccountID string) (*domain.LedgerAccount, error)
	GetJournalEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
	// ReverseJournalEntry writes the negated mirror of an entry plus the
	// compensating adjustments for every account it touched.
	ReverseJournalEntry(ctx context.Context, journalEntryID string, actor string) (*domain.JournalEntry, error)
}
