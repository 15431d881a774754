package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// LedgerAccountType classifies a ledger bucket.
type LedgerAccountType string

const (
	LedgerAccountBusiness   LedgerAccountType = "BUSINESS"
	LedgerAccountAllocation LedgerAccountType = "ALLOCATION"
	LedgerAccountCard       LedgerAccountType = "CARD"
	LedgerAccountBank       LedgerAccountType = "BANK"
	LedgerAccountNetwork    LedgerAccountType = "NETWORK"
	LedgerAccountManual     LedgerAccountType = "MANUAL"
	LedgerAccountClearing   LedgerAccountType = "CLEARING"
)

// IsSystem reports whether ledger accounts of this type are shared per
// currency rather than owned by a single Account.
func (t LedgerAccountType) IsSystem() bool {
	switch t {
	case LedgerAccountBank, LedgerAccountNetwork, LedgerAccountManual, LedgerAccountClearing:
		return true
	}
	return false
}

// LedgerAccount is immutable after creation and never deleted.
type LedgerAccount struct {
	ID        string            `json:"ledgerAccountID"`
	Type      LedgerAccountType `json:"type"`
	Currency  Currency          `json:"currency"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewLedgerAccount creates a ledger account with a fresh id.
func NewLedgerAccount(t LedgerAccountType, currency Currency, now time.Time) LedgerAccount {
	return LedgerAccount{ID: NewID(), Type: t, Currency: currency, CreatedAt: now}
}

// Posting is one signed leg of a JournalEntry. Postings are write-once.
type Posting struct {
	ID              string    `json:"postingID"`
	JournalEntryID  string    `json:"journalEntryID"`
	LedgerAccountID string    `json:"ledgerAccountID"`
	Amount          Amount    `json:"amount"`
	EffectiveDate   time.Time `json:"effectiveDate"`
	CreatedAt       time.Time `json:"createdAt"`
}

// JournalEntry groups postings that sum to zero per currency.
type JournalEntry struct {
	ID                     string    `json:"journalEntryID"`
	ReversedJournalEntryID *string   `json:"reversedJournalEntryID,omitempty"`
	ReversalJournalEntryID *string   `json:"reversalJournalEntryID,omitempty"`
	Postings               []Posting `json:"postings"`
	CreatedAt              time.Time `json:"createdAt"`
}

// PostingSpec describes a posting to be created as part of a new entry.
type PostingSpec struct {
	LedgerAccountID string
	Amount          Amount
	EffectiveDate   time.Time
}

// NewJournalEntry builds a balanced entry. It fails with
// ErrUnbalancedJournalEntry unless every currency nets to exactly zero, and
// with ErrValidation for fewer than two postings or a repeated ledger account.
func NewJournalEntry(specs []PostingSpec, now time.Time) (*JournalEntry, error) {
	if len(specs) < 2 {
		return nil, fmt.Errorf("%w: a journal entry needs at least two postings, got %d", apperrors.ErrValidation, len(specs))
	}

	seen := make(map[string]struct{}, len(specs))
	for _, s := range specs {
		if s.LedgerAccountID == "" {
			return nil, fmt.Errorf("%w: posting is missing a ledger account", apperrors.ErrValidation)
		}
		if _, dup := seen[s.LedgerAccountID]; dup {
			return nil, fmt.Errorf("%w: ledger account %s appears more than once", apperrors.ErrValidation, s.LedgerAccountID)
		}
		seen[s.LedgerAccountID] = struct{}{}
	}

	if err := checkBalanced(specs); err != nil {
		return nil, err
	}

	entry := &JournalEntry{ID: NewID(), CreatedAt: now}
	entry.Postings = make([]Posting, len(specs))
	for i, s := range specs {
		effective := s.EffectiveDate
		if effective.IsZero() {
			effective = now
		}
		entry.Postings[i] = Posting{
			ID:              NewID(),
			JournalEntryID:  entry.ID,
			LedgerAccountID: s.LedgerAccountID,
			Amount:          s.Amount,
			EffectiveDate:   effective,
			CreatedAt:       now,
		}
	}
	return entry, nil
}

func checkBalanced(specs []PostingSpec) error {
	totals := make(map[Currency]decimal.Decimal)
	for _, s := range specs {
		totals[s.Amount.Currency] = totals[s.Amount.Currency].Add(s.Amount.Value)
	}
	currencies := make([]string, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, string(c))
	}
	sort.Strings(currencies)
	for _, c := range currencies {
		if sum := totals[Currency(c)]; !sum.IsZero() {
			return fmt.Errorf("%w: %s postings sum to %s", apperrors.ErrUnbalancedJournalEntry, c, sum.String())
		}
	}
	return nil
}

// IsReversal reports whether this entry compensates another one.
func (j *JournalEntry) IsReversal() bool {
	return j.ReversedJournalEntryID != nil
}

// IsReversed reports whether a compensating entry already exists.
func (j *JournalEntry) IsReversed() bool {
	return j.ReversalJournalEntryID != nil
}

// PostingFor returns the posting against the given ledger account.
func (j *JournalEntry) PostingFor(ledgerAccountID string) (Posting, bool) {
	for _, p := range j.Postings {
		if p.LedgerAccountID == ledgerAccountID {
			return p, true
		}
	}
	return Posting{}, false
}

// Reverse builds the negated mirror of j and links both entries.
// The receiver is only modified when the reversal is valid.
func (j *JournalEntry) Reverse(now time.Time) (*JournalEntry, error) {
	if j.IsReversed() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAlreadyReversed, j.ID)
	}
	if j.IsReversal() {
		return nil, fmt.Errorf("%w: journal entry %s is itself a reversal", apperrors.ErrValidation, j.ID)
	}

	specs := make([]PostingSpec, len(j.Postings))
	for i, p := range j.Postings {
		specs[i] = PostingSpec{LedgerAccountID: p.LedgerAccountID, Amount: p.Amount.Negate(), EffectiveDate: now}
	}
	reversal, err := NewJournalEntry(specs, now)
	if err != nil {
		return nil, err
	}

	originalID := j.ID
	reversal.ReversedJournalEntryID = &originalID
	reversalID := reversal.ID
	j.ReversalJournalEntryID = &reversalID
	return reversal, nil
}
