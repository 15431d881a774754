package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
)

// AdjustmentType describes why an Account's ledger balance moved.
type AdjustmentType string

const (
	AdjustmentDeposit        AdjustmentType = "DEPOSIT"
	AdjustmentWithdraw       AdjustmentType = "WITHDRAW"
	AdjustmentReallocation   AdjustmentType = "REALLOCATION"
	AdjustmentNetworkCapture AdjustmentType = "NETWORK_CAPTURE"
	AdjustmentNetworkRefund  AdjustmentType = "NETWORK_REFUND"
	AdjustmentReversal       AdjustmentType = "REVERSAL"
	AdjustmentManual         AdjustmentType = "MANUAL"
)

// IsNetwork reports whether the adjustment came from card activity.
func (t AdjustmentType) IsNetwork() bool {
	return t == AdjustmentNetworkCapture || t == AdjustmentNetworkRefund
}

// Adjustment is an immutable ledger-backed balance change, paired 1:1 with
// a Posting of a JournalEntry.
type Adjustment struct {
	ID              string         `json:"adjustmentID"`
	BusinessID      string         `json:"businessID"`
	AllocationID    *string        `json:"allocationID,omitempty"`
	CardID          *string        `json:"cardID,omitempty"`
	AccountID       string         `json:"accountID"`
	LedgerAccountID string         `json:"ledgerAccountID"`
	JournalEntryID  string         `json:"journalEntryID"`
	PostingID       string         `json:"postingID"`
	Type            AdjustmentType `json:"type"`
	EffectiveDate   time.Time      `json:"effectiveDate"`
	Amount          Amount         `json:"amount"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// NewAdjustment derives the adjustment for account from its posting in entry.
func NewAdjustment(account *Account, t AdjustmentType, entry *JournalEntry, cardID *string, now time.Time) (*Adjustment, error) {
	posting, ok := entry.PostingFor(account.LedgerAccountID)
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s has no posting for ledger account %s", apperrors.ErrValidation, entry.ID, account.LedgerAccountID)
	}
	if posting.Amount.Currency != account.Currency() {
		return nil, fmt.Errorf("%w: posting in %s on %s account", apperrors.ErrCurrencyMismatch, posting.Amount.Currency, account.Currency())
	}
	return &Adjustment{
		ID:              NewID(),
		BusinessID:      account.BusinessID,
		AllocationID:    account.AllocationID,
		CardID:          cardID,
		AccountID:       account.ID,
		LedgerAccountID: account.LedgerAccountID,
		JournalEntryID:  entry.ID,
		PostingID:       posting.ID,
		Type:            t,
		EffectiveDate:   posting.EffectiveDate,
		Amount:          posting.Amount,
		CreatedAt:       now,
	}, nil
}
