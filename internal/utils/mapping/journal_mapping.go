package mapping

import (
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/SscSPs/card_ledger_app/internal/models"
)

func ToModelLedgerAccount(d domain.LedgerAccount) models.LedgerAccount {
	return models.LedgerAccount{
		LedgerAccountID: d.ID,
		Type:            string(d.Type),
		CurrencyCode:    string(d.Currency),
		CreatedAt:       d.CreatedAt,
	}
}

func ToDomainLedgerAccount(m models.LedgerAccount) *domain.LedgerAccount {
	return &domain.LedgerAccount{
		ID:        m.LedgerAccountID,
		Type:      domain.LedgerAccountType(m.Type),
		Currency:  domain.Currency(m.CurrencyCode),
		CreatedAt: m.CreatedAt,
	}
}

// ToModelJournalEntry splits a domain JournalEntry into its entry row and posting rows.
func ToModelJournalEntry(d domain.JournalEntry) (models.JournalEntry, []models.Posting) {
	entry := models.JournalEntry{
		JournalEntryID:         d.ID,
		ReversedJournalEntryID: d.ReversedJournalEntryID,
		ReversalJournalEntryID: d.ReversalJournalEntryID,
		CreatedAt:              d.CreatedAt,
	}
	postings := make([]models.Posting, len(d.Postings))
	for i, p := range d.Postings {
		postings[i] = models.Posting{
			PostingID:       p.ID,
			JournalEntryID:  d.ID,
			LedgerAccountID: p.LedgerAccountID,
			Amount:          p.Amount.Value,
			CurrencyCode:    string(p.Amount.Currency),
			EffectiveDate:   p.EffectiveDate,
			CreatedAt:       p.CreatedAt,
		}
	}
	return entry, postings
}

// ToDomainJournalEntry assembles a domain JournalEntry from its rows.
func ToDomainJournalEntry(m models.JournalEntry, postings []models.Posting) *domain.JournalEntry {
	entry := &domain.JournalEntry{
		ID:                     m.JournalEntryID,
		ReversedJournalEntryID: m.ReversedJournalEntryID,
		ReversalJournalEntryID: m.ReversalJournalEntryID,
		Postings:               make([]domain.Posting, len(postings)),
		CreatedAt:              m.CreatedAt,
	}
	for i, p := range postings {
		entry.Postings[i] = domain.Posting{
			ID:              p.PostingID,
			JournalEntryID:  p.JournalEntryID,
			LedgerAccountID: p.LedgerAccountID,
			Amount:          domain.NewAmount(domain.Currency(p.CurrencyCode), p.Amount),
			EffectiveDate:   p.EffectiveDate,
			CreatedAt:       p.CreatedAt,
		}
	}
	return entry
}

func ToModelAdjustment(d domain.Adjustment) models.Adjustment {
	return models.Adjustment{
		AdjustmentID:    d.ID,
		BusinessID:      d.BusinessID,
		AllocationID:    d.AllocationID,
		CardID:          d.CardID,
		AccountID:       d.AccountID,
		LedgerAccountID: d.LedgerAccountID,
		JournalEntryID:  d.JournalEntryID,
		PostingID:       d.PostingID,
		Type:            string(d.Type),
		EffectiveDate:   d.EffectiveDate,
		Amount:          d.Amount.Value,
		CurrencyCode:    string(d.Amount.Currency),
		CreatedAt:       d.CreatedAt,
	}
}

func ToDomainAdjustment(m models.Adjustment) domain.Adjustment {
	return domain.Adjustment{
		ID:              m.AdjustmentID,
		BusinessID:      m.BusinessID,
		AllocationID:    m.AllocationID,
		CardID:          m.CardID,
		AccountID:       m.AccountID,
		LedgerAccountID: m.LedgerAccountID,
		JournalEntryID:  m.JournalEntryID,
		PostingID:       m.PostingID,
		Type:            domain.AdjustmentType(m.Type),
		EffectiveDate:   m.EffectiveDate,
		Amount:          domain.NewAmount(domain.Currency(m.CurrencyCode), m.Amount),
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainAdjustmentSlice converts a slice of model Adjustments to domain Adjustments
func ToDomainAdjustmentSlice(ms []models.Adjustment) []domain.Adjustment {
	ds := make([]domain.Adjustment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAdjustment(m)
	}
	return ds
}
