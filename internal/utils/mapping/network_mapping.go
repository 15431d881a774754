package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/SscSPs/card_ledger_app/internal/models"
)

func ToModelNetworkMessage(d domain.NetworkMessage) models.NetworkMessage {
	reasons := make([]string, len(d.DeclineReasons))
	for i, r := range d.DeclineReasons {
		reasons[i] = string(r)
	}
	return models.NetworkMessage{
		NetworkMessageID:         d.ID,
		CardRef:                  d.CardRef,
		CardID:                   d.CardID,
		BusinessID:               d.BusinessID,
		AllocationID:             d.AllocationID,
		AccountID:                d.AccountID,
		ExternalRef:              d.ExternalRef,
		AuthorizationExternalRef: d.AuthorizationExternalRef,
		Type:                     string(d.Type),
		RequestedAmount:          d.RequestedAmount.Value,
		ApprovedAmount:           d.ApprovedAmount.Value,
		CurrencyCode:             string(d.RequestedAmount.Currency),
		Approved:                 d.Approved,
		HoldID:                   d.HoldID,
		AdjustmentID:             d.AdjustmentID,
		DeclineReasons:           reasons,
		MerchantName:             d.MerchantName,
		MerchantCategoryCode:     int32(d.MerchantCategoryCode),
		CreatedAt:                d.CreatedAt,
	}
}

func ToDomainNetworkMessage(m models.NetworkMessage) *domain.NetworkMessage {
	reasons := make([]domain.DeclineReason, len(m.DeclineReasons))
	for i, r := range m.DeclineReasons {
		reasons[i] = domain.DeclineReason(r)
	}
	currency := domain.Currency(m.CurrencyCode)
	return &domain.NetworkMessage{
		ID:                       m.NetworkMessageID,
		CardRef:                  m.CardRef,
		CardID:                   m.CardID,
		BusinessID:               m.BusinessID,
		AllocationID:             m.AllocationID,
		AccountID:                m.AccountID,
		ExternalRef:              m.ExternalRef,
		AuthorizationExternalRef: m.AuthorizationExternalRef,
		Type:                     domain.NetworkMessageType(m.Type),
		RequestedAmount:          domain.NewAmount(currency, m.RequestedAmount),
		ApprovedAmount:           domain.NewAmount(currency, m.ApprovedAmount),
		Approved:                 m.Approved,
		HoldID:                   m.HoldID,
		AdjustmentID:             m.AdjustmentID,
		DeclineReasons:           reasons,
		MerchantName:             m.MerchantName,
		MerchantCategoryCode:     int(m.MerchantCategoryCode),
		CreatedAt:                m.CreatedAt,
	}
}

func ToModelTransactionLimit(d domain.TransactionLimit) (models.TransactionLimit, error) {
	limits, err := json.Marshal(d.Limits)
	if err != nil {
		return models.TransactionLimit{}, fmt.Errorf("failed to encode limits: %w", err)
	}
	codes := make([]int32, len(d.DisabledMerchantCategoryCodes))
	for i, c := range d.DisabledMerchantCategoryCodes {
		codes[i] = int32(c)
	}
	return models.TransactionLimit{
		BusinessID:                    d.BusinessID,
		OwnerType:                     string(d.OwnerType),
		OwnerID:                       d.OwnerID,
		Limits:                        limits,
		DisabledMerchantCategoryCodes: codes,
		DisableForeign:                d.DisableForeign,
		AuditFields:                   ToModelAuditFields(d.AuditFields),
	}, nil
}

func ToDomainTransactionLimit(m models.TransactionLimit) (*domain.TransactionLimit, error) {
	limits := make(domain.Limits)
	if err := json.Unmarshal(m.Limits, &limits); err != nil {
		return nil, fmt.Errorf("failed to decode limits: %w", err)
	}
	codes := make([]int, len(m.DisabledMerchantCategoryCodes))
	for i, c := range m.DisabledMerchantCategoryCodes {
		codes[i] = int(c)
	}
	return &domain.TransactionLimit{
		BusinessID:                    m.BusinessID,
		OwnerID:                       m.OwnerID,
		OwnerType:                     domain.LimitOwnerType(m.OwnerType),
		Limits:                        limits,
		DisabledMerchantCategoryCodes: codes,
		DisableForeign:                m.DisableForeign,
		AuditFields:                   ToDomainAuditFields(m.AuditFields),
	}, nil
}

func ToModelBusinessLimit(d domain.BusinessLimit) (models.BusinessLimit, error) {
	limits, err := json.Marshal(d.Limits)
	if err != nil {
		return models.BusinessLimit{}, fmt.Errorf("failed to encode limits: %w", err)
	}
	return models.BusinessLimit{
		BusinessID:  d.BusinessID,
		Limits:      limits,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, nil
}

func ToDomainBusinessLimit(m models.BusinessLimit) (*domain.BusinessLimit, error) {
	limits := make(domain.Limits)
	if err := json.Unmarshal(m.Limits, &limits); err != nil {
		return nil, fmt.Errorf("failed to decode limits: %w", err)
	}
	return &domain.BusinessLimit{
		BusinessID:  m.BusinessID,
		Limits:      limits,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}, nil
}
