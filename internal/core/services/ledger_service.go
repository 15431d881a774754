package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
)

type ledgerService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewLedgerService creates the ledger service.
func NewLedgerService(repos portsrepo.RepositoryProvider, options ...Option) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: newBaseService(repos.TxManager, buildOptions(options)),
		repos:       repos,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetLedgerAccount(ctx context.Context, ledgerAccountID string) (*domain.LedgerAccount, error) {
	la, err := s.repos.Ledger.FindLedgerAccountByID(ctx, ledgerAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find ledger account", slog.String("ledger_account_id", ledgerAccountID))
		}
		return nil, err
	}
	return la, nil
}

func (s *ledgerService) GetJournalEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	entry, err := s.repos.Ledger.FindJournalEntryByID(ctx, journalEntryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("journal_entry_id", journalEntryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ReverseJournalEntry(ctx context.Context, journalEntryID string, actor string) (*domain.JournalEntry, error) {
	var reversal *domain.JournalEntry
	err := s.tx.run(ctx, "reverse journal entry", func(ctx context.Context, repos portsrepo.TxRepositories) error {
		now := s.now()

		entry, err := repos.Ledger.FindJournalEntryByID(ctx, journalEntryID)
		if err != nil {
			return err
		}
		adjustments, err := repos.Adjustments.FindAdjustmentsByJournalEntryID(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("failed to load adjustments of journal entry %s: %w", entry.ID, err)
		}

		accountIDs := make([]string, 0, len(adjustments))
		for _, adj := range adjustments {
			accountIDs = append(accountIDs, adj.AccountID)
		}
		accounts, err := repos.Accounts.FindAccountsForUpdate(ctx, accountIDs)
		if err != nil {
			return err
		}

		reversal, err = entry.Reverse(now)
		if err != nil {
			return err
		}
		if err := repos.Ledger.SaveJournalEntry(ctx, *reversal); err != nil {
			return fmt.Errorf("failed to save reversal journal entry: %w", err)
		}
		if err := repos.Ledger.MarkJournalEntryReversed(ctx, entry.ID, reversal.ID); err != nil {
			return err
		}

		for _, adj := range adjustments {
			account, ok := accounts[adj.AccountID]
			if !ok {
				return fmt.Errorf("%w: account %s of adjustment %s not found", apperrors.ErrNotFound, adj.AccountID, adj.ID)
			}
			compensating, err := domain.NewAdjustment(account, domain.AdjustmentReversal, reversal, adj.CardID, now)
			if err != nil {
				return err
			}
			if err := account.ApplyAdjustment(*compensating, now); err != nil {
				return err
			}
			if err := repos.Adjustments.SaveAdjustment(ctx, *compensating); err != nil {
				return fmt.Errorf("failed to save reversal adjustment: %w", err)
			}
			if err := repos.Accounts.UpdateLedgerBalance(ctx, account.ID, account.LedgerBalance, actor, now); err != nil {
				return fmt.Errorf("failed to update balance of account %s: %w", account.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.IsIntegrityError(err) {
			s.LogError(ctx, err, "Journal entry reversal rejected", slog.String("journal_entry_id", journalEntryID))
		} else if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to reverse journal entry", slog.String("journal_entry_id", journalEntryID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("journal_entry_id", journalEntryID),
		slog.String("reversal_journal_entry_id", reversal.ID),
		slog.String("actor", actor))
	return reversal, nil
}
