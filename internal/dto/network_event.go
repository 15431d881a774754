package dto

import (
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NetworkAmount is a signed amount. Negative values move money out of the
// cardholder's account. Value is a pointer so a missing value is rejected
// rather than read as zero.
type NetworkAmount struct {
	Value    *decimal.Decimal `json:"value" binding:"required"`
	Currency string           `json:"currency" binding:"required,iso4217"`
}

// NetworkMerchant describes the merchant in a network event.
type NetworkMerchant struct {
	Name         string `json:"name"`
	Number       string `json:"number"`
	CategoryCode int    `json:"categoryCode" binding:"min=0,max=9999"`
	Type         string `json:"type"`
	Country      string `json:"country" binding:"omitempty,iso3166_1_alpha2"`
	PostalCode   string `json:"postalCode"`
}

// NetworkVerification carries the network's cardholder checks.
type NetworkVerification struct {
	CVCCheck               string `json:"cvcCheck" binding:"omitempty,oneof=match mismatch not_provided"`
	ExpiryCheck            string `json:"expiryCheck" binding:"omitempty,oneof=match mismatch not_provided"`
	AddressPostalCodeCheck string `json:"addressPostalCodeCheck" binding:"omitempty,oneof=match mismatch not_provided"`
}

func (a NetworkAmount) amount() decimal.Decimal {
	if a.Value == nil {
		return decimal.Zero
	}
	return *a.Value
}

// NetworkEventRequest is the verified webhook payload for one card network event.
type NetworkEventRequest struct {
	ExternalRef              string              `json:"externalRef" binding:"required,max=128"`
	AuthorizationExternalRef string              `json:"authorizationExternalRef" binding:"max=128"`
	NetworkMessageType       string              `json:"networkMessageType" binding:"required,oneof=AUTH_REQUEST PRE_AUTH FINANCIAL_AUTH AUTH_CREATED AUTH_UPDATED AUTH_REVERSAL"`
	CardRef                  string              `json:"cardRef" binding:"required,max=128"`
	Amount                   NetworkAmount       `json:"amount" binding:"required"`
	Merchant                 NetworkMerchant     `json:"merchant"`
	IsAmountControllable     bool                `json:"isAmountControllable"`
	Verification             NetworkVerification `json:"verification"`
	CreatedAtEpochMillis     int64               `json:"createdAtEpochMillis" binding:"required,gt=0"`
}

// ToNetworkEvent converts the payload into the domain event.
func (r NetworkEventRequest) ToNetworkEvent() domain.NetworkEvent {
	return domain.NetworkEvent{
		ExternalRef:              r.ExternalRef,
		AuthorizationExternalRef: r.AuthorizationExternalRef,
		Type:                     domain.NetworkMessageType(r.NetworkMessageType),
		CardRef:                  r.CardRef,
		Amount:                   domain.NewAmount(domain.NormalizeCurrency(r.Amount.Currency), r.Amount.amount()),
		Merchant: domain.Merchant{
			Name:         r.Merchant.Name,
			Number:       r.Merchant.Number,
			CategoryCode: r.Merchant.CategoryCode,
			Type:         domain.MerchantType(r.Merchant.Type),
			Country:      r.Merchant.Country,
			PostalCode:   r.Merchant.PostalCode,
		},
		IsAmountControllable: r.IsAmountControllable,
		Verification: domain.Verification{
			CVCCheck:               domain.VerificationResult(r.Verification.CVCCheck),
			ExpiryCheck:            domain.VerificationResult(r.Verification.ExpiryCheck),
			AddressPostalCodeCheck: domain.VerificationResult(r.Verification.AddressPostalCodeCheck),
		},
		CreatedAt: time.UnixMilli(r.CreatedAtEpochMillis).UTC(),
	}
}

// NetworkDecisionResponse is returned to the card network.
type NetworkDecisionResponse struct {
	Approved       bool                `json:"approved"`
	ApprovedAmount decimal.Decimal     `json:"approvedAmount"`
	CurrencyCode   string              `json:"currencyCode"`
	Metadata       NetworkDecisionMeta `json:"metadata"`
}

// NetworkDecisionMeta identifies what the decision was made against.
type NetworkDecisionMeta struct {
	BusinessID     string                 `json:"businessID"`
	AllocationID   *string                `json:"allocationID,omitempty"`
	CardID         string                 `json:"cardID"`
	AccountID      string                 `json:"accountID"`
	DeclineReasons []domain.DeclineReason `json:"declineReasons"`
}

// ToNetworkDecisionResponse converts the domain response for the wire.
func ToNetworkDecisionResponse(resp *domain.AuthorizationResponse) NetworkDecisionResponse {
	reasons := resp.DeclineReasons
	if reasons == nil {
		reasons = []domain.DeclineReason{}
	}
	return NetworkDecisionResponse{
		Approved:       resp.Approved,
		ApprovedAmount: resp.ApprovedAmount.Value,
		CurrencyCode:   string(resp.ApprovedAmount.Currency),
		Metadata: NetworkDecisionMeta{
			BusinessID:     resp.BusinessID,
			AllocationID:   resp.AllocationID,
			CardID:         resp.CardID,
			AccountID:      resp.AccountID,
			DeclineReasons: reasons,
		},
	}
}
