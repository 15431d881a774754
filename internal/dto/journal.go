package dto

import (
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingResponse is the API view of a posting.
type PostingResponse struct {
	PostingID       string          `json:"postingID"`
	LedgerAccountID string          `json:"ledgerAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	CurrencyCode    string          `json:"currencyCode"`
	EffectiveDate   time.Time       `json:"effectiveDate"`
}

// JournalEntryResponse is the API view of a journal entry.
type JournalEntryResponse struct {
	JournalEntryID         string            `json:"journalEntryID"`
	ReversedJournalEntryID *string           `json:"reversedJournalEntryID,omitempty"`
	ReversalJournalEntryID *string           `json:"reversalJournalEntryID,omitempty"`
	Postings               []PostingResponse `json:"postings"`
	CreatedAt              time.Time         `json:"createdAt"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(entry *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		JournalEntryID:         entry.ID,
		ReversedJournalEntryID: entry.ReversedJournalEntryID,
		ReversalJournalEntryID: entry.ReversalJournalEntryID,
		Postings:               make([]PostingResponse, len(entry.Postings)),
		CreatedAt:              entry.CreatedAt,
	}
	for i, p := range entry.Postings {
		resp.Postings[i] = PostingResponse{
			PostingID:       p.ID,
			LedgerAccountID: p.LedgerAccountID,
			Amount:          p.Amount.Value,
			CurrencyCode:    string(p.Amount.Currency),
			EffectiveDate:   p.EffectiveDate,
		}
	}
	return resp
}
