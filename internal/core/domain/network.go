package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NetworkMessageType is the kind of card network event being processed.
type NetworkMessageType string

const (
	AuthRequest   NetworkMessageType = "AUTH_REQUEST"
	PreAuth       NetworkMessageType = "PRE_AUTH"
	FinancialAuth NetworkMessageType = "FINANCIAL_AUTH"
	AuthCreated   NetworkMessageType = "AUTH_CREATED"
	AuthUpdated   NetworkMessageType = "AUTH_UPDATED"
	AuthReversal  NetworkMessageType = "AUTH_REVERSAL"
)

// AllNetworkMessageTypes lists every type the engine must be able to handle.
var AllNetworkMessageTypes = []NetworkMessageType{
	AuthRequest, PreAuth, FinancialAuth, AuthCreated, AuthUpdated, AuthReversal,
}

// IsAuthorization reports whether the type asks for funds to be reserved.
func (t NetworkMessageType) IsAuthorization() bool {
	return t == AuthRequest || t == PreAuth
}

// CreditOrDebit is the direction of money from the cardholder account's view.
type CreditOrDebit string

const (
	Credit CreditOrDebit = "CREDIT"
	Debit  CreditOrDebit = "DEBIT"
)

// DeclineReason is a machine-readable decline code returned to the network.
type DeclineReason string

const (
	DeclineCardNotFound         DeclineReason = "CARD_NOT_FOUND"
	DeclineInvalidCardStatus    DeclineReason = "INVALID_CARD_STATUS"
	DeclineCVCMismatch          DeclineReason = "CVC_MISMATCH"
	DeclineExpiryMismatch       DeclineReason = "EXPIRY_MISMATCH"
	DeclinePostalCodeMismatch   DeclineReason = "ADDRESS_POSTAL_CODE_MISMATCH"
	DeclineSpendControl         DeclineReason = "SPEND_CONTROL_VIOLATED"
	DeclineForeignNotAllowed    DeclineReason = "FOREIGN_TRANSACTION_NOT_ALLOWED"
	DeclineInsufficientFunds    DeclineReason = "INSUFFICIENT_FUNDS"
	DeclineLimitExceeded        DeclineReason = "LIMIT_EXCEEDED"
	DeclineCurrencyNotSupported DeclineReason = "CURRENCY_NOT_SUPPORTED"
	DeclineProcessingError      DeclineReason = "PROCESSING_ERROR"
)

// VerificationResult is the network's outcome for one cardholder check.
type VerificationResult string

const (
	VerificationMatch       VerificationResult = "match"
	VerificationMismatch    VerificationResult = "mismatch"
	VerificationNotProvided VerificationResult = "not_provided"
)

// Verification holds the network's CVC, expiry and AVS results.
type Verification struct {
	CVCCheck               VerificationResult
	ExpiryCheck            VerificationResult
	AddressPostalCodeCheck VerificationResult
}

// Merchant describes where the card was used.
type Merchant struct {
	Name         string
	Number       string
	CategoryCode int
	Type         MerchantType
	Country      string
	PostalCode   string
}

// NetworkEvent is a verified, deserialized card network payload.
type NetworkEvent struct {
	ExternalRef              string
	AuthorizationExternalRef string
	Type                     NetworkMessageType
	CardRef                  string
	Amount                   Amount
	Merchant                 Merchant
	IsAmountControllable     bool
	Verification             Verification
	CreatedAt                time.Time
}

// AuthorizationRef returns the reference shared by every message for one
// authorization. The first AUTH_REQUEST carries it as its own ExternalRef.
func (e NetworkEvent) AuthorizationRef() string {
	if e.AuthorizationExternalRef != "" {
		return e.AuthorizationExternalRef
	}
	return e.ExternalRef
}

// NetworkCommon is the working state for one event while it moves through
// the decision engine. It is not persisted.
type NetworkCommon struct {
	Event                NetworkEvent
	CreditOrDebit        CreditOrDebit
	RequestedAmount      Amount
	ApprovedAmount       Amount
	HoldAmount           Amount
	HoldExpiration       time.Time
	AllowPartialApproval bool

	Card    *Card
	Account *Account

	PriorAuthorization *NetworkMessage
	PriorHold          *Hold

	PostHold       bool
	PostAdjustment bool
	PostDecline    bool
	DeclineReasons []DeclineReason

	Hold       *Hold
	Adjustment *Adjustment
}

// NewNetworkCommon normalizes an event. RequestedAmount is always
// non-negative; the sign of the raw amount becomes CreditOrDebit.
func NewNetworkCommon(event NetworkEvent) *NetworkCommon {
	direction := Debit
	if event.Amount.IsPositive() {
		direction = Credit
	}
	requested := event.Amount.Abs()
	return &NetworkCommon{
		Event:                event,
		CreditOrDebit:        direction,
		RequestedAmount:      requested,
		ApprovedAmount:       ZeroAmount(requested.Currency),
		HoldAmount:           requested,
		AllowPartialApproval: event.IsAmountControllable,
	}
}

// Decline marks the event as declined, appending reasons in order.
func (c *NetworkCommon) Decline(reasons ...DeclineReason) {
	c.PostDecline = true
	c.PostHold = false
	c.PostAdjustment = false
	c.ApprovedAmount = ZeroAmount(c.RequestedAmount.Currency)
	for _, r := range reasons {
		if !c.hasReason(r) {
			c.DeclineReasons = append(c.DeclineReasons, r)
		}
	}
}

func (c *NetworkCommon) hasReason(r DeclineReason) bool {
	for _, existing := range c.DeclineReasons {
		if existing == r {
			return true
		}
	}
	return false
}

// ApplyHoldPolicy pads the reservation and sets the hold expiry for the
// merchant type.
func (c *NetworkCommon) ApplyHoldPolicy(now time.Time) {
	policy := HoldPolicyFor(c.Event.Merchant.Type)
	c.HoldExpiration = now.Add(policy.Duration)
	switch {
	case policy.FixedAmount != nil:
		c.HoldAmount = NewAmount(c.RequestedAmount.Currency, *policy.FixedAmount)
	case !policy.Multiplier.Equal(decimal.NewFromInt(1)):
		c.HoldAmount = NewAmount(c.RequestedAmount.Currency, c.RequestedAmount.Value.Mul(policy.Multiplier).Round(c.RequestedAmount.Currency.Precision()))
	default:
		c.HoldAmount = c.RequestedAmount
	}
	if policy.DisablePartialApproval {
		c.AllowPartialApproval = false
	}
}

// Response builds the outbound decision.
func (c *NetworkCommon) Response() AuthorizationResponse {
	resp := AuthorizationResponse{
		Approved:       !c.PostDecline,
		ApprovedAmount: c.ApprovedAmount,
		DeclineReasons: append([]DeclineReason{}, c.DeclineReasons...),
	}
	if c.Card != nil {
		resp.BusinessID = c.Card.BusinessID
		resp.AllocationID = c.Card.AllocationID
		resp.CardID = c.Card.ID
		resp.AccountID = c.Card.AccountID
	}
	if c.Account != nil {
		resp.AccountID = c.Account.ID
	}
	return resp
}

// AuthorizationResponse is returned to the card network.
type AuthorizationResponse struct {
	Approved       bool            `json:"approved"`
	ApprovedAmount Amount          `json:"approvedAmount"`
	BusinessID     string          `json:"businessID"`
	AllocationID   *string         `json:"allocationID,omitempty"`
	CardID         string          `json:"cardID"`
	AccountID      string          `json:"accountID"`
	DeclineReasons []DeclineReason `json:"declineReasons"`
}
