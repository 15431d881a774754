package mapping

import (
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/SscSPs/card_ledger_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.ID,
		BusinessID:      d.BusinessID,
		AllocationID:    d.AllocationID,
		LedgerAccountID: d.LedgerAccountID,
		AccountType:     string(d.Type),
		OwnerID:         d.OwnerID,
		CurrencyCode:    string(d.LedgerBalance.Currency),
		LedgerBalance:   d.LedgerBalance.Value,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account. Holds are
// not part of the row and must be loaded separately.
func ToDomainAccount(m models.Account) *domain.Account {
	return &domain.Account{
		ID:              m.AccountID,
		BusinessID:      m.BusinessID,
		AllocationID:    m.AllocationID,
		LedgerAccountID: m.LedgerAccountID,
		Type:            domain.AccountType(m.AccountType),
		OwnerID:         m.OwnerID,
		LedgerBalance:   domain.NewAmount(domain.Currency(m.CurrencyCode), m.LedgerBalance),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelHold(d domain.Hold) models.Hold {
	return models.Hold{
		HoldID:         d.ID,
		BusinessID:     d.BusinessID,
		AccountID:      d.AccountID,
		AllocationID:   d.AllocationID,
		CardID:         d.CardID,
		Status:         string(d.Status),
		Amount:         d.Amount.Value,
		CurrencyCode:   string(d.Amount.Currency),
		ExpirationDate: d.ExpirationDate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainHold(m models.Hold) domain.Hold {
	return domain.Hold{
		ID:             m.HoldID,
		BusinessID:     m.BusinessID,
		AccountID:      m.AccountID,
		AllocationID:   m.AllocationID,
		CardID:         m.CardID,
		Status:         domain.HoldStatus(m.Status),
		Amount:         domain.NewAmount(domain.Currency(m.CurrencyCode), m.Amount),
		ExpirationDate: m.ExpirationDate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainHoldSlice converts a slice of model Holds to domain Holds
func ToDomainHoldSlice(ms []models.Hold) []domain.Hold {
	ds := make([]domain.Hold, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainHold(m)
	}
	return ds
}

func ToModelCard(d domain.Card) models.Card {
	return models.Card{
		CardID:       d.ID,
		CardRef:      d.CardRef,
		BusinessID:   d.BusinessID,
		AllocationID: d.AllocationID,
		AccountID:    d.AccountID,
		Status:       string(d.Status),
		LastFour:     d.LastFour,
	}
}

func ToDomainCard(m models.Card) *domain.Card {
	return &domain.Card{
		ID:           m.CardID,
		CardRef:      m.CardRef,
		BusinessID:   m.BusinessID,
		AllocationID: m.AllocationID,
		AccountID:    m.AccountID,
		Status:       domain.CardStatus(m.Status),
		LastFour:     m.LastFour,
	}
}
