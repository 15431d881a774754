package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
)

// The helpers in this file run inside a unit of work and assume that every
// account they touch was loaded with a row lock.

// systemLedgerAccount returns the shared ledger account of type t, creating
// it on first use.
func systemLedgerAccount(ctx context.Context, repos portsrepo.TxRepositories, t domain.LedgerAccountType, currency domain.Currency, now time.Time) (*domain.LedgerAccount, error) {
	la, err := repos.Ledger.FindSystemLedgerAccount(ctx, t, currency)
	if err == nil {
		return la, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find %s ledger account: %w", t, err)
	}

	if err := repos.Ledger.SaveLedgerAccount(ctx, domain.NewLedgerAccount(t, currency, now)); err != nil {
		return nil, fmt.Errorf("failed to create %s ledger account: %w", t, err)
	}
	// Re-read: a concurrent creator may have won and the insert was skipped.
	return repos.Ledger.FindSystemLedgerAccount(ctx, t, currency)
}

// lockAccount loads an account under a row lock with its active holds.
func lockAccount(ctx context.Context, repos portsrepo.TxRepositories, accountID string, now time.Time) (*domain.Account, error) {
	account, err := repos.Accounts.FindAccountForUpdate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := loadHolds(ctx, repos.Holds, account, now); err != nil {
		return nil, err
	}
	return account, nil
}

func loadHolds(ctx context.Context, holds portsrepo.HoldRepository, account *domain.Account, now time.Time) error {
	active, err := holds.FindActiveHolds(ctx, account.ID, now)
	if err != nil {
		return fmt.Errorf("failed to load holds for account %s: %w", account.ID, err)
	}
	account.SetHolds(active, now)
	return nil
}

// accountLeg is one account-backed side of a journal entry. Amount is signed
// from the account's point of view.
type accountLeg struct {
	account *domain.Account
	amount  domain.Amount
	cardID  *string
}

// postEntry writes one balanced journal entry with an adjustment for every
// account leg, applies each adjustment and persists the new balances. The
// counter postings must make the entry balance.
func postEntry(ctx context.Context, repos portsrepo.TxRepositories, adjType domain.AdjustmentType, legs []accountLeg, counter []domain.PostingSpec, actor string, now time.Time) (*domain.JournalEntry, []domain.Adjustment, error) {
	specs := make([]domain.PostingSpec, 0, len(legs)+len(counter))
	for _, leg := range legs {
		specs = append(specs, domain.PostingSpec{LedgerAccountID: leg.account.LedgerAccountID, Amount: leg.amount, EffectiveDate: now})
	}
	specs = append(specs, counter...)

	entry, err := domain.NewJournalEntry(specs, now)
	if err != nil {
		return nil, nil, err
	}

	adjustments := make([]domain.Adjustment, 0, len(legs))
	for _, leg := range legs {
		adj, err := domain.NewAdjustment(leg.account, adjType, entry, leg.cardID, now)
		if err != nil {
			return nil, nil, err
		}
		if err := leg.account.ApplyAdjustment(*adj, now); err != nil {
			return nil, nil, err
		}
		adjustments = append(adjustments, *adj)
	}

	if err := repos.Ledger.SaveJournalEntry(ctx, *entry); err != nil {
		return nil, nil, fmt.Errorf("failed to save journal entry: %w", err)
	}
	for _, adj := range adjustments {
		if err := repos.Adjustments.SaveAdjustment(ctx, adj); err != nil {
			return nil, nil, fmt.Errorf("failed to save adjustment: %w", err)
		}
	}
	for _, leg := range legs {
		if err := repos.Accounts.UpdateLedgerBalance(ctx, leg.account.ID, leg.account.LedgerBalance, actor, now); err != nil {
			return nil, nil, fmt.Errorf("failed to update balance of account %s: %w", leg.account.ID, err)
		}
	}
	return entry, adjustments, nil
}

// postAgainstSystem moves amount into (positive) or out of (negative) the
// account with the system ledger account of type counterType on the other side.
func postAgainstSystem(ctx context.Context, repos portsrepo.TxRepositories, account *domain.Account, counterType domain.LedgerAccountType, adjType domain.AdjustmentType, amount domain.Amount, cardID *string, actor string, now time.Time) (*domain.Adjustment, error) {
	counter, err := systemLedgerAccount(ctx, repos, counterType, amount.Currency, now)
	if err != nil {
		return nil, err
	}
	_, adjustments, err := postEntry(ctx, repos, adjType,
		[]accountLeg{{account: account, amount: amount, cardID: cardID}},
		[]domain.PostingSpec{{LedgerAccountID: counter.ID, Amount: amount.Negate(), EffectiveDate: now}},
		actor, now)
	if err != nil {
		return nil, err
	}
	return &adjustments[0], nil
}

// placeHold reserves amount on a locked account. It fails with
// apperrors.ErrInsufficientFunds if the reservation does not fit.
func placeHold(ctx context.Context, repos portsrepo.TxRepositories, account *domain.Account, cardID *string, amount domain.Amount, expiresAt, now time.Time) (*domain.Hold, error) {
	hold, err := domain.NewDebitHold(account, cardID, amount, expiresAt, now)
	if err != nil {
		return nil, err
	}
	if err := account.AddHold(*hold); err != nil {
		return nil, err
	}
	if err := repos.Holds.SaveHold(ctx, *hold); err != nil {
		return nil, fmt.Errorf("failed to save hold: %w", err)
	}
	return hold, nil
}

// settleHold moves a PLACED hold to a terminal status and drops it from the
// account's available balance.
func settleHold(ctx context.Context, repos portsrepo.TxRepositories, account *domain.Account, hold *domain.Hold, to domain.HoldStatus, actor string, now time.Time) error {
	var err error
	switch to {
	case domain.HoldReleased:
		err = hold.Release(actor, now)
	case domain.HoldCaptured:
		err = hold.Capture(actor, now)
	case domain.HoldExpired:
		err = hold.Expire(now)
	default:
		err = fmt.Errorf("%w: unknown target status %s", apperrors.ErrInvalidHoldTransition, to)
	}
	if err != nil {
		return err
	}
	if err := repos.Holds.UpdateHoldStatus(ctx, hold.ID, to, actor, now); err != nil {
		return err
	}
	if account != nil {
		account.DropHold(hold.ID)
	}
	return nil
}
