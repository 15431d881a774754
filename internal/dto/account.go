package dto

import (
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	BusinessID   string             `json:"businessID" binding:"required"`
	AllocationID *string            `json:"allocationID"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=BUSINESS ALLOCATION CARD"`
	OwnerID      string             `json:"ownerID" binding:"required"`
	CurrencyCode string             `json:"currencyCode" binding:"required,iso4217"`
}

// TransferRequest moves money between an account and the bank.
type TransferRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"positive_decimal"`
	CurrencyCode string          `json:"currencyCode" binding:"required,iso4217"`
}

// ReallocateRequest moves money between two accounts of one business.
type ReallocateRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required,nefield=FromAccountID"`
	Amount        decimal.Decimal `json:"amount" binding:"positive_decimal"`
	CurrencyCode  string          `json:"currencyCode" binding:"required,iso4217"`
}

// HoldResponse is the API view of a hold.
type HoldResponse struct {
	HoldID         string            `json:"holdID"`
	Status         domain.HoldStatus `json:"status"`
	Amount         decimal.Decimal   `json:"amount"`
	CurrencyCode   string            `json:"currencyCode"`
	ExpirationDate time.Time         `json:"expirationDate"`
	CardID         *string           `json:"cardID,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string             `json:"accountID"`
	BusinessID       string             `json:"businessID"`
	AllocationID     *string            `json:"allocationID,omitempty"`
	LedgerAccountID  string             `json:"ledgerAccountID"`
	AccountType      domain.AccountType `json:"accountType"`
	OwnerID          string             `json:"ownerID"`
	CurrencyCode     string             `json:"currencyCode"`
	LedgerBalance    decimal.Decimal    `json:"ledgerBalance"`
	AvailableBalance decimal.Decimal    `json:"availableBalance"`
	Holds            []HoldResponse     `json:"holds"`
	CreatedAt        time.Time          `json:"createdAt"`
	LastUpdatedAt    time.Time          `json:"lastUpdatedAt"`
}

// ToHoldResponse converts a domain.Hold to HoldResponse DTO.
func ToHoldResponse(h domain.Hold) HoldResponse {
	return HoldResponse{
		HoldID:         h.ID,
		Status:         h.Status,
		Amount:         h.Amount.Value,
		CurrencyCode:   string(h.Amount.Currency),
		ExpirationDate: h.ExpirationDate,
		CardID:         h.CardID,
	}
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	holds := acc.Holds()
	resp := AccountResponse{
		AccountID:        acc.ID,
		BusinessID:       acc.BusinessID,
		AllocationID:     acc.AllocationID,
		LedgerAccountID:  acc.LedgerAccountID,
		AccountType:      acc.Type,
		OwnerID:          acc.OwnerID,
		CurrencyCode:     string(acc.Currency()),
		LedgerBalance:    acc.LedgerBalance.Value,
		AvailableBalance: acc.AvailableBalance().Value,
		Holds:            make([]HoldResponse, len(holds)),
		CreatedAt:        acc.CreatedAt,
		LastUpdatedAt:    acc.LastUpdatedAt,
	}
	for i, h := range holds {
		resp.Holds[i] = ToHoldResponse(h)
	}
	return resp
}

// AdjustmentResponse is the API view of an adjustment.
type AdjustmentResponse struct {
	AdjustmentID   string                `json:"adjustmentID"`
	AccountID      string                `json:"accountID"`
	JournalEntryID string                `json:"journalEntryID"`
	PostingID      string                `json:"postingID"`
	Type           domain.AdjustmentType `json:"type"`
	Amount         decimal.Decimal       `json:"amount"`
	CurrencyCode   string                `json:"currencyCode"`
	EffectiveDate  time.Time             `json:"effectiveDate"`
	CardID         *string               `json:"cardID,omitempty"`
}

// ToAdjustmentResponse converts a domain.Adjustment to AdjustmentResponse DTO.
func ToAdjustmentResponse(a domain.Adjustment) AdjustmentResponse {
	return AdjustmentResponse{
		AdjustmentID:   a.ID,
		AccountID:      a.AccountID,
		JournalEntryID: a.JournalEntryID,
		PostingID:      a.PostingID,
		Type:           a.Type,
		Amount:         a.Amount.Value,
		CurrencyCode:   string(a.Amount.Currency),
		EffectiveDate:  a.EffectiveDate,
		CardID:         a.CardID,
	}
}

// ReallocationResponse returns both sides of a reallocation.
type ReallocationResponse struct {
	JournalEntryID string             `json:"journalEntryID"`
	From           AdjustmentResponse `json:"from"`
	To             AdjustmentResponse `json:"to"`
}

// ListAdjustmentsParams defines parameters for listing an account's adjustments.
type ListAdjustmentsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListAdjustmentsResponse wraps a page of adjustments.
type ListAdjustmentsResponse struct {
	Adjustments []AdjustmentResponse `json:"adjustments"`
	NextToken   *string              `json:"nextToken,omitempty"`
}

// ReconciliationResponse compares the three views of an account's balance.
type ReconciliationResponse struct {
	AccountID       string          `json:"accountID"`
	CurrencyCode    string          `json:"currencyCode"`
	LedgerBalance   decimal.Decimal `json:"ledgerBalance"`
	AdjustmentTotal decimal.Decimal `json:"adjustmentTotal"`
	PostingTotal    decimal.Decimal `json:"postingTotal"`
	Balanced        bool            `json:"balanced"`
}
