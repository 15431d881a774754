package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID       string          `db:"account_id"`
	BusinessID      string          `db:"business_id"`
	AllocationID    *string         `db:"allocation_id"` // Nullable for business accounts
	LedgerAccountID string          `db:"ledger_account_id"`
	AccountType     string          `db:"account_type"`
	OwnerID         string          `db:"owner_id"`
	CurrencyCode    string          `db:"currency_code"`
	LedgerBalance   decimal.Decimal `db:"ledger_balance"`
	AuditFields
}

// Hold is a row of the holds table. Amount is stored negative.
type Hold struct {
	HoldID         string          `db:"hold_id"`
	BusinessID     string          `db:"business_id"`
	AccountID      string          `db:"account_id"`
	AllocationID   *string         `db:"allocation_id"`
	CardID         *string         `db:"card_id"`
	Status         string          `db:"status"`
	Amount         decimal.Decimal `db:"amount"`
	CurrencyCode   string          `db:"currency_code"`
	ExpirationDate time.Time       `db:"expiration_date"`
	AuditFields
}

// Card is a row of the cards table.
type Card struct {
	CardID       string  `db:"card_id"`
	CardRef      string  `db:"card_ref"`
	BusinessID   string  `db:"business_id"`
	AllocationID *string `db:"allocation_id"`
	AccountID    string  `db:"account_id"`
	Status       string  `db:"status"`
	LastFour     string  `db:"last_four"`
}
