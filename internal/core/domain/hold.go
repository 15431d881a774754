package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
)

// HoldStatus is the lifecycle state of a Hold.
type HoldStatus string

const (
	HoldPlaced   HoldStatus = "PLACED"
	HoldReleased HoldStatus = "RELEASED"
	HoldCaptured HoldStatus = "CAPTURED"
	HoldExpired  HoldStatus = "EXPIRED"
)

// IsTerminal reports whether no further transition is possible.
func (s HoldStatus) IsTerminal() bool {
	return s != HoldPlaced
}

// Hold reserves funds on an Account without touching its ledger balance.
// Amount is negative for a reservation.
type Hold struct {
	ID             string     `json:"holdID"`
	BusinessID     string     `json:"businessID"`
	AccountID      string     `json:"accountID"`
	AllocationID   *string    `json:"allocationID,omitempty"`
	CardID         *string    `json:"cardID,omitempty"`
	Status         HoldStatus `json:"status"`
	Amount         Amount     `json:"amount"`
	ExpirationDate time.Time  `json:"expirationDate"`
	AuditFields
}

// NewDebitHold creates a PLACED hold reserving the magnitude of amount.
func NewDebitHold(account *Account, cardID *string, amount Amount, expiresAt time.Time, now time.Time) (*Hold, error) {
	if amount.IsZero() {
		return nil, fmt.Errorf("%w: hold amount must be non-zero", apperrors.ErrValidation)
	}
	if amount.Currency != account.LedgerBalance.Currency {
		return nil, fmt.Errorf("%w: hold in %s on %s account", apperrors.ErrCurrencyMismatch, amount.Currency, account.LedgerBalance.Currency)
	}
	if !expiresAt.After(now) {
		return nil, fmt.Errorf("%w: hold expiration must be in the future", apperrors.ErrValidation)
	}
	h := &Hold{
		ID:             NewID(),
		BusinessID:     account.BusinessID,
		AccountID:      account.ID,
		AllocationID:   account.AllocationID,
		CardID:         cardID,
		Status:         HoldPlaced,
		Amount:         amount.Abs().Negate(),
		ExpirationDate: expiresAt,
	}
	StampCreated(&h.AuditFields, SystemActor, now)
	return h, nil
}

// IsActive reports whether the hold still reduces available balance at now.
func (h *Hold) IsActive(now time.Time) bool {
	return h.Status == HoldPlaced && now.Before(h.ExpirationDate)
}

// IsExpiredAt reports whether a PLACED hold has passed its expiration.
func (h *Hold) IsExpiredAt(now time.Time) bool {
	return h.Status == HoldPlaced && !now.Before(h.ExpirationDate)
}

func (h *Hold) transition(to HoldStatus, actor string, now time.Time) error {
	if h.Status != HoldPlaced {
		return fmt.Errorf("%w: hold %s is %s, cannot move to %s", apperrors.ErrInvalidHoldTransition, h.ID, h.Status, to)
	}
	h.Status = to
	StampUpdated(&h.AuditFields, actor, now)
	return nil
}

func (h *Hold) Release(actor string, now time.Time) error {
	return h.transition(HoldReleased, actor, now)
}

func (h *Hold) Capture(actor string, now time.Time) error {
	return h.transition(HoldCaptured, actor, now)
}

func (h *Hold) Expire(now time.Time) error {
	return h.transition(HoldExpired, SystemActor, now)
}
