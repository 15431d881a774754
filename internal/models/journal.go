package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerAccount is a row of the ledger_accounts table.
type LedgerAccount struct {
	LedgerAccountID string    `db:"ledger_account_id"`
	Type            string    `db:"type"`
	CurrencyCode    string    `db:"currency_code"`
	CreatedAt       time.Time `db:"created_at"`
}

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	JournalEntryID         string    `db:"journal_entry_id"`
	ReversedJournalEntryID *string   `db:"reversed_journal_entry_id"`
	ReversalJournalEntryID *string   `db:"reversal_journal_entry_id"`
	CreatedAt              time.Time `db:"created_at"`
}

// Posting is a row of the postings table.
type Posting struct {
	PostingID       string          `db:"posting_id"`
	JournalEntryID  string          `db:"journal_entry_id"`
	LedgerAccountID string          `db:"ledger_account_id"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	EffectiveDate   time.Time       `db:"effective_date"`
	CreatedAt       time.Time       `db:"created_at"`
}

// Adjustment is a row of the adjustments table.
type Adjustment struct {
	AdjustmentID    string          `db:"adjustment_id"`
	BusinessID      string          `db:"business_id"`
	AllocationID    *string         `db:"allocation_id"`
	CardID          *string         `db:"card_id"`
	AccountID       string          `db:"account_id"`
	LedgerAccountID string          `db:"ledger_account_id"`
	JournalEntryID  string          `db:"journal_entry_id"`
	PostingID       string          `db:"posting_id"`
	Type            string          `db:"type"`
	EffectiveDate   time.Time       `db:"effective_date"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	CreatedAt       time.Time       `db:"created_at"`
}
