package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/dto"
	"github.com/SscSPs/card_ledger_app/internal/platform/metrics"
)

type accountService struct {
	BaseService
	repos   portsrepo.RepositoryProvider
	limits  portssvc.LimitSvcFacade
	metrics *metrics.LedgerMetrics
}

// NewAccountService creates the account service. Deposits and withdrawals
// are checked against business ACH limits through limits.
func NewAccountService(repos portsrepo.RepositoryProvider, limits portssvc.LimitSvcFacade, options ...Option) portssvc.AccountSvcFacade {
	o := buildOptions(options)
	return &accountService{
		BaseService: newBaseService(repos.TxManager, o),
		repos:       repos,
		limits:      limits,
		metrics:     o.ledgerMetrics(),
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	if req.AccountType == domain.AccountBusiness && req.AllocationID != nil {
		return nil, fmt.Errorf("%w: a business account cannot belong to an allocation", apperrors.ErrValidation)
	}
	if req.AccountType != domain.AccountBusiness && req.AllocationID == nil {
		return nil, fmt.Errorf("%w: %s accounts need an allocationID", apperrors.ErrValidation, req.AccountType)
	}

	var account *domain.Account
	err := s.tx.run(ctx, "create account", func(ctx context.Context, repos portsrepo.TxRepositories) error {
		now := s.now()
		la := domain.NewLedgerAccount(req.AccountType.LedgerAccountType(), domain.NormalizeCurrency(req.CurrencyCode), now)
		if err := repos.Ledger.SaveLedgerAccount(ctx, la); err != nil {
			return fmt.Errorf("failed to save ledger account: %w", err)
		}
		account = domain.NewAccount(req.BusinessID, req.AllocationID, req.AccountType, req.OwnerID, la, actor, now)
		return repos.Accounts.SaveAccount(ctx, *account)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("business_id", req.BusinessID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.ID),
		slog.String("account_type", string(account.Type)),
		slog.String("currency", string(account.Currency())))
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repos.Accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if err := loadHolds(ctx, s.repos.Holds, account, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to load account holds", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) Deposit(ctx context.Context, accountID string, req dto.TransferRequest, actor string) (*domain.Adjustment, error) {
	return s.transfer(ctx, accountID, req, actor, domain.AdjustmentDeposit)
}

func (s *accountService) Withdraw(ctx context.Context, accountID string, req dto.TransferRequest, actor string) (*domain.Adjustment, error) {
	return s.transfer(ctx, accountID, req, actor, domain.AdjustmentWithdraw)
}

// transfer moves money between an account and the bank clearing account.
func (s *accountService) transfer(ctx context.Context, accountID string, req dto.TransferRequest, actor string, adjType domain.AdjustmentType) (*domain.Adjustment, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	amount := domain.NewAmount(domain.NormalizeCurrency(req.CurrencyCode), req.Amount)
	limitType := domain.LimitACHDeposit
	if adjType == domain.AdjustmentWithdraw {
		limitType = domain.LimitACHWithdraw
		amount = amount.Negate()
	}

	var adjustment *domain.Adjustment
	err := s.tx.run(ctx, string(adjType), func(ctx context.Context, repos portsrepo.TxRepositories) error {
		now := s.now()
		account, err := lockAccount(ctx, repos, accountID, now)
		if err != nil {
			return err
		}
		if account.Currency() != amount.Currency {
			return fmt.Errorf("%w: %s transfer on %s account", apperrors.ErrCurrencyMismatch, amount.Currency, account.Currency())
		}
		if adjType == domain.AdjustmentWithdraw {
			if account.AvailableBalance().Value.LessThan(amount.Value.Abs()) {
				return fmt.Errorf("%w: available %s cannot cover withdrawal of %s", apperrors.ErrInsufficientFunds, account.AvailableBalance(), amount.Abs())
			}
		}

		result, err := s.limits.CheckBusinessLimit(ctx, repos, account.BusinessID, limitType, amount, now)
		if err != nil {
			return err
		}
		if !result.Allowed() {
			return fmt.Errorf("%w: %s", apperrors.ErrLimitExceeded, result.Violation)
		}

		adjustment, err = postAgainstSystem(ctx, repos, account, domain.LedgerAccountBank, adjType, amount, nil, actor, now)
		return err
	})
	if err != nil {
		s.logMoneyMovementError(ctx, err, string(adjType), slog.String("account_id", accountID))
		return nil, err
	}

	s.metrics.RecordAdjustment(string(adjType))
	s.LogInfo(ctx, "Bank transfer posted",
		slog.String("account_id", accountID),
		slog.String("type", string(adjType)),
		slog.String("amount", amount.String()),
		slog.String("journal_entry_id", adjustment.JournalEntryID))
	return adjustment, nil
}

func (s *accountService) Reallocate(ctx context.Context, req dto.ReallocateRequest, actor string) (*dto.ReallocationResponse, error) {
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: cannot reallocate to the same account", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	amount := domain.NewAmount(domain.NormalizeCurrency(req.CurrencyCode), req.Amount)

	var resp *dto.ReallocationResponse
	err := s.tx.run(ctx, "reallocate", func(ctx context.Context, repos portsrepo.TxRepositories) error {
		now := s.now()
		accounts, err := repos.Accounts.FindAccountsForUpdate(ctx, []string{req.FromAccountID, req.ToAccountID})
		if err != nil {
			return err
		}
		from, ok := accounts[req.FromAccountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, req.FromAccountID)
		}
		to, ok := accounts[req.ToAccountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, req.ToAccountID)
		}
		if from.BusinessID != to.BusinessID {
			return fmt.Errorf("%w: accounts belong to different businesses", apperrors.ErrValidation)
		}
		if from.Currency() != amount.Currency || to.Currency() != amount.Currency {
			return fmt.Errorf("%w: reallocation in %s between %s and %s accounts", apperrors.ErrCurrencyMismatch, amount.Currency, from.Currency(), to.Currency())
		}
		if err := loadHolds(ctx, repos.Holds, from, now); err != nil {
			return err
		}
		if from.AvailableBalance().Value.LessThan(amount.Value) {
			return fmt.Errorf("%w: available %s cannot cover reallocation of %s", apperrors.ErrInsufficientFunds, from.AvailableBalance(), amount)
		}

		entry, adjustments, err := postEntry(ctx, repos, domain.AdjustmentReallocation, []accountLeg{
			{account: from, amount: amount.Negate()},
			{account: to, amount: amount},
		}, nil, actor, now)
		if err != nil {
			return err
		}
		resp = &dto.ReallocationResponse{
			JournalEntryID: entry.ID,
			From:           dto.ToAdjustmentResponse(adjustments[0]),
			To:             dto.ToAdjustmentResponse(adjustments[1]),
		}
		return nil
	})
	if err != nil {
		s.logMoneyMovementError(ctx, err, "reallocation",
			slog.String("from_account_id", req.FromAccountID),
			slog.String("to_account_id", req.ToAccountID))
		return nil, err
	}

	s.metrics.RecordAdjustment(string(domain.AdjustmentReallocation))
	s.LogInfo(ctx, "Funds reallocated",
		slog.String("journal_entry_id", resp.JournalEntryID),
		slog.String("amount", amount.String()))
	return resp, nil
}

func (s *accountService) ReleaseHold(ctx context.Context, holdID string, actor string) (*domain.Hold, error) {
	var released *domain.Hold
	err := s.tx.run(ctx, "release hold", func(ctx context.Context, repos portsrepo.TxRepositories) error {
		now := s.now()
		hold, err := repos.Holds.FindHoldByID(ctx, holdID)
		if err != nil {
			return err
		}
		// Lock the account first so release cannot interleave with an
		// authorization deciding against the same hold set.
		account, err := lockAccount(ctx, repos, hold.AccountID, now)
		if err != nil {
			return err
		}
		if hold, err = repos.Holds.FindHoldByID(ctx, holdID); err != nil {
			return err
		}
		if err := settleHold(ctx, repos, account, hold, domain.HoldReleased, actor, now); err != nil {
			return err
		}
		released = hold
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidHoldTransition) {
			s.LogError(ctx, err, "Failed to release hold", slog.String("hold_id", holdID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Hold released", slog.String("hold_id", holdID), slog.String("actor", actor))
	return released, nil
}

// ExpireHolds settles each expired hold in its own unit of work so that one
// failure does not hold back the rest of the batch.
func (s *accountService) ExpireHolds(ctx context.Context, asOf time.Time, batchSize int) (int, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("%w: batch size must be positive", apperrors.ErrValidation)
	}
	expired, err := s.repos.Holds.ListExpiredHolds(ctx, asOf, batchSize)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expired holds")
		return 0, err
	}

	count := 0
	for _, candidate := range expired {
		if ctx.Err() != nil {
			break
		}
		err := s.tx.run(ctx, "expire hold", func(ctx context.Context, repos portsrepo.TxRepositories) error {
			account, err := lockAccount(ctx, repos, candidate.AccountID, asOf)
			if err != nil {
				return err
			}
			hold, err := repos.Holds.FindHoldByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if !hold.IsExpiredAt(asOf) {
				return nil
			}
			return settleHold(ctx, repos, account, hold, domain.HoldExpired, domain.SystemActor, asOf)
		})
		switch {
		case err == nil:
			count++
		case errors.Is(err, apperrors.ErrInvalidHoldTransition):
			// Settled by someone else since the listing.
		default:
			s.LogError(ctx, err, "Failed to expire hold", slog.String("hold_id", candidate.ID))
		}
	}

	s.metrics.RecordHoldsExpired(count)
	if count > 0 {
		s.LogInfo(ctx, "Expired holds", slog.Int("count", count), slog.Time("as_of", asOf))
	}
	return count, ctx.Err()
}

func (s *accountService) ListAdjustments(ctx context.Context, accountID string, params dto.ListAdjustmentsParams) (*dto.ListAdjustmentsResponse, error) {
	if _, err := s.repos.Accounts.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	page, err := s.repos.Adjustments.ListAdjustmentsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list adjustments", slog.String("account_id", accountID))
		}
		return nil, err
	}

	resp := &dto.ListAdjustmentsResponse{
		Adjustments: make([]dto.AdjustmentResponse, len(page.Adjustments)),
		NextToken:   page.NextToken,
	}
	for i, adj := range page.Adjustments {
		resp.Adjustments[i] = dto.ToAdjustmentResponse(adj)
	}
	return resp, nil
}

// Reconcile compares the stored balance with the sum of the account's
// adjustments and with the sum of its ledger account's postings.
func (s *accountService) Reconcile(ctx context.Context, accountID string) (*dto.ReconciliationResponse, error) {
	account, err := s.repos.Accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	adjustmentTotal, err := s.repos.Adjustments.SumAdjustments(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum adjustments: %w", err)
	}
	postingTotal, err := s.repos.Ledger.SumPostings(ctx, account.LedgerAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum postings: %w", err)
	}

	resp := &dto.ReconciliationResponse{
		AccountID:       account.ID,
		CurrencyCode:    string(account.Currency()),
		LedgerBalance:   account.LedgerBalance.Value,
		AdjustmentTotal: adjustmentTotal,
		PostingTotal:    postingTotal,
	}
	resp.Balanced = resp.LedgerBalance.Equal(adjustmentTotal) && resp.LedgerBalance.Equal(postingTotal)
	if !resp.Balanced {
		s.LogError(ctx, apperrors.ErrUnbalancedJournalEntry, "Account does not reconcile",
			slog.String("account_id", accountID),
			slog.String("ledger_balance", resp.LedgerBalance.String()),
			slog.String("adjustment_total", adjustmentTotal.String()),
			slog.String("posting_total", postingTotal.String()))
	}
	return resp, nil
}

// logMoneyMovementError keeps expected business rejections out of the error log.
func (s *accountService) logMoneyMovementError(ctx context.Context, err error, op string, keyvals ...any) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrLimitExceeded):
		s.LogInfo(ctx, "Money movement rejected", append([]any{slog.String("operation", op), slog.String("reason", err.Error())}, keyvals...)...)
	default:
		s.LogError(ctx, err, "Failed money movement", append([]any{slog.String("operation", op)}, keyvals...)...)
	}
}
