package domain

import "time"

// NetworkMessage records the outcome of one processed network event. The
// (CardRef, ExternalRef, Type) triple is unique.
type NetworkMessage struct {
	ID                       string             `json:"networkMessageID"`
	CardRef                  string             `json:"cardRef"`
	CardID                   string             `json:"cardID"`
	BusinessID               string             `json:"businessID"`
	AllocationID             *string            `json:"allocationID,omitempty"`
	AccountID                string             `json:"accountID"`
	ExternalRef              string             `json:"externalRef"`
	AuthorizationExternalRef string             `json:"authorizationExternalRef"`
	Type                     NetworkMessageType `json:"type"`
	RequestedAmount          Amount             `json:"requestedAmount"`
	ApprovedAmount           Amount             `json:"approvedAmount"`
	Approved                 bool               `json:"approved"`
	HoldID                   *string            `json:"holdID,omitempty"`
	AdjustmentID             *string            `json:"adjustmentID,omitempty"`
	DeclineReasons           []DeclineReason    `json:"declineReasons"`
	MerchantName             string             `json:"merchantName"`
	MerchantCategoryCode     int                `json:"merchantCategoryCode"`
	CreatedAt                time.Time          `json:"createdAt"`
}

// NewNetworkMessage captures the decision held in c.
func NewNetworkMessage(c *NetworkCommon, now time.Time) *NetworkMessage {
	m := &NetworkMessage{
		ID:                       NewID(),
		CardRef:                  c.Event.CardRef,
		ExternalRef:              c.Event.ExternalRef,
		AuthorizationExternalRef: c.Event.AuthorizationRef(),
		Type:                     c.Event.Type,
		RequestedAmount:          c.RequestedAmount,
		ApprovedAmount:           c.ApprovedAmount,
		Approved:                 !c.PostDecline,
		DeclineReasons:           append([]DeclineReason{}, c.DeclineReasons...),
		MerchantName:             c.Event.Merchant.Name,
		MerchantCategoryCode:     c.Event.Merchant.CategoryCode,
		CreatedAt:                now,
	}
	if c.Card != nil {
		m.CardID = c.Card.ID
		m.BusinessID = c.Card.BusinessID
		m.AllocationID = c.Card.AllocationID
		m.AccountID = c.Card.AccountID
	}
	if c.Account != nil {
		m.AccountID = c.Account.ID
	}
	if c.Hold != nil {
		id := c.Hold.ID
		m.HoldID = &id
	}
	if c.Adjustment != nil {
		id := c.Adjustment.ID
		m.AdjustmentID = &id
	}
	return m
}

// Response rebuilds the outbound decision from the stored record, so a
// replay returns exactly what the first delivery did.
func (m *NetworkMessage) Response() AuthorizationResponse {
	return AuthorizationResponse{
		Approved:       m.Approved,
		ApprovedAmount: m.ApprovedAmount,
		BusinessID:     m.BusinessID,
		AllocationID:   m.AllocationID,
		CardID:         m.CardID,
		AccountID:      m.AccountID,
		DeclineReasons: append([]DeclineReason{}, m.DeclineReasons...),
	}
}
