package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NetworkMessage is a row of the network_messages table.
type NetworkMessage struct {
	NetworkMessageID         string          `db:"network_message_id"`
	CardRef                  string          `db:"card_ref"`
	CardID                   string          `db:"card_id"`
	BusinessID               string          `db:"business_id"`
	AllocationID             *string         `db:"allocation_id"`
	AccountID                string          `db:"account_id"`
	ExternalRef              string          `db:"external_ref"`
	AuthorizationExternalRef string          `db:"authorization_external_ref"`
	Type                     string          `db:"type"`
	RequestedAmount          decimal.Decimal `db:"requested_amount"`
	ApprovedAmount           decimal.Decimal `db:"approved_amount"`
	CurrencyCode             string          `db:"currency_code"`
	Approved                 bool            `db:"approved"`
	HoldID                   *string         `db:"hold_id"`
	AdjustmentID             *string         `db:"adjustment_id"`
	DeclineReasons           []string        `db:"decline_reasons"`
	MerchantName             string          `db:"merchant_name"`
	MerchantCategoryCode     int32           `db:"merchant_category_code"`
	CreatedAt                time.Time       `db:"created_at"`
}

// TransactionLimit is a row of the transaction_limits table. Limits holds
// the JSONB ceiling document.
type TransactionLimit struct {
	BusinessID                    string  `db:"business_id"`
	OwnerType                     string  `db:"owner_type"`
	OwnerID                       string  `db:"owner_id"`
	Limits                        []byte  `db:"limits"`
	DisabledMerchantCategoryCodes []int32 `db:"disabled_merchant_category_codes"`
	DisableForeign                bool    `db:"disable_foreign"`
	AuditFields
}

// BusinessLimit is a row of the business_limits table.
type BusinessLimit struct {
	BusinessID string `db:"business_id"`
	Limits     []byte `db:"limits"`
	AuditFields
}
