package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
)

// AccountType identifies what an Account holds money for.
type AccountType string

const (
	AccountBusiness   AccountType = "BUSINESS"
	AccountAllocation AccountType = "ALLOCATION"
	AccountCard       AccountType = "CARD"
)

// LedgerAccountType returns the ledger bucket type backing this account type.
func (t AccountType) LedgerAccountType() LedgerAccountType {
	switch t {
	case AccountAllocation:
		return LedgerAccountAllocation
	case AccountCard:
		return LedgerAccountCard
	default:
		return LedgerAccountBusiness
	}
}

// Account is a per business/allocation money container. LedgerBalance is
// authoritative and only changes through ApplyAdjustment. Available balance
// is derived from it and the hold set on every read.
type Account struct {
	ID              string      `json:"accountID"`
	BusinessID      string      `json:"businessID"`
	AllocationID    *string     `json:"allocationID,omitempty"`
	LedgerAccountID string      `json:"ledgerAccountID"`
	Type            AccountType `json:"type"`
	OwnerID         string      `json:"ownerID"`
	LedgerBalance   Amount      `json:"ledgerBalance"`
	AuditFields

	holds []Hold
	asOf  time.Time
}

// NewAccount creates an account with a zero balance backed by ledgerAccount.
func NewAccount(businessID string, allocationID *string, t AccountType, ownerID string, ledgerAccount LedgerAccount, actor string, now time.Time) *Account {
	a := &Account{
		ID:              NewID(),
		BusinessID:      businessID,
		AllocationID:    allocationID,
		LedgerAccountID: ledgerAccount.ID,
		Type:            t,
		OwnerID:         ownerID,
		LedgerBalance:   ZeroAmount(ledgerAccount.Currency),
	}
	StampCreated(&a.AuditFields, actor, now)
	return a
}

func (a *Account) Currency() Currency {
	return a.LedgerBalance.Currency
}

// SetHolds replaces the hold set used for available balance. Holds are
// evaluated against asOf so an expired PLACED hold never counts, whether
// or not the sweep has run.
func (a *Account) SetHolds(holds []Hold, asOf time.Time) {
	a.holds = append([]Hold(nil), holds...)
	a.asOf = asOf
}

// Holds returns the holds still active at the time SetHolds was called.
func (a *Account) Holds() []Hold {
	active := make([]Hold, 0, len(a.holds))
	for _, h := range a.holds {
		if h.IsActive(a.asOf) {
			active = append(active, h)
		}
	}
	return active
}

// AvailableBalance is ledgerBalance plus the (negative) active hold amounts.
func (a *Account) AvailableBalance() Amount {
	available := a.LedgerBalance
	for _, h := range a.holds {
		if !h.IsActive(a.asOf) || h.Amount.Currency != available.Currency {
			continue
		}
		available.Value = available.Value.Add(h.Amount.Value)
	}
	return available
}

// AddHold places h after checking it fits within the available balance.
func (a *Account) AddHold(h Hold) error {
	if h.Amount.Currency != a.Currency() {
		return fmt.Errorf("%w: hold in %s on %s account", apperrors.ErrCurrencyMismatch, h.Amount.Currency, a.Currency())
	}
	after, err := a.AvailableBalance().Add(h.Amount)
	if err != nil {
		return err
	}
	if h.Amount.IsNegative() && after.IsNegative() {
		return fmt.Errorf("%w: available %s cannot cover hold of %s", apperrors.ErrInsufficientFunds, a.AvailableBalance(), h.Amount.Abs())
	}
	a.holds = append(a.holds, h)
	return nil
}

// DropHold removes a hold from the in-memory set after it leaves PLACED.
func (a *Account) DropHold(holdID string) {
	for i, h := range a.holds {
		if h.ID == holdID {
			a.holds = append(a.holds[:i:i], a.holds[i+1:]...)
			return
		}
	}
}

// ApplyAdjustment moves ledgerBalance by adj.Amount.
func (a *Account) ApplyAdjustment(adj Adjustment, now time.Time) error {
	if adj.AccountID != a.ID {
		return fmt.Errorf("%w: adjustment %s belongs to account %s", apperrors.ErrValidation, adj.ID, adj.AccountID)
	}
	balance, err := a.LedgerBalance.Add(adj.Amount)
	if err != nil {
		return err
	}
	a.LedgerBalance = balance
	StampUpdated(&a.AuditFields, SystemActor, now)
	return nil
}
