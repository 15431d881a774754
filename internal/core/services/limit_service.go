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
)

type limitService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewLimitService creates the limit evaluator service.
func NewLimitService(repos portsrepo.RepositoryProvider, options ...Option) portssvc.LimitSvcFacade {
	return &limitService{
		BaseService: newBaseService(repos.TxManager, buildOptions(options)),
		repos:       repos,
	}
}

var _ portssvc.LimitSvcFacade = (*limitService)(nil)

// CheckCardSpend applies the card's and then the allocation's spend controls
// and purchase ceilings. check.Amount is the signed purchase amount.
func (s *limitService) CheckCardSpend(ctx context.Context, repos portsrepo.TxRepositories, check portssvc.SpendCheck) (portssvc.SpendCheckResult, error) {
	var result portssvc.SpendCheckResult
	card := check.Card

	type scope struct {
		ownerType domain.LimitOwnerType
		ownerID   string
		filter    portsrepo.SpendFilter
	}
	since := check.Now.Add(-domain.LongestLimitWindow)
	cardID := card.ID
	scopes := []scope{{
		ownerType: domain.LimitOwnerCard,
		ownerID:   card.ID,
		filter:    portsrepo.SpendFilter{BusinessID: card.BusinessID, CardID: &cardID, Since: since},
	}}
	if card.AllocationID != nil {
		scopes = append(scopes, scope{
			ownerType: domain.LimitOwnerAllocation,
			ownerID:   *card.AllocationID,
			filter:    portsrepo.SpendFilter{BusinessID: card.BusinessID, AllocationID: card.AllocationID, Since: since},
		})
	}

	for _, sc := range scopes {
		limit, err := repos.Limits.FindTransactionLimit(ctx, card.BusinessID, sc.ownerType, sc.ownerID)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to load %s limit for %s: %w", sc.ownerType, sc.ownerID, err)
		}

		if limit.BlocksMerchant(check.Merchant.CategoryCode) {
			result.DeclineReasons = appendReason(result.DeclineReasons, domain.DeclineSpendControl)
		}
		if limit.DisableForeign && check.Foreign {
			result.DeclineReasons = appendReason(result.DeclineReasons, domain.DeclineForeignNotAllowed)
		}

		ceilings := limit.Limits.Ceilings(check.Amount.Currency, domain.LimitPurchase)
		if len(ceilings) == 0 || result.Violation != nil {
			continue
		}
		history, err := s.spendHistory(ctx, repos, sc.filter, check.Now)
		if err != nil {
			return result, err
		}
		evaluated := domain.EvaluateLimit(sc.ownerID, domain.LimitPurchase, check.Amount, history, ceilings, check.Now)
		if !evaluated.Allowed() {
			result.Violation = evaluated.Violation
			result.DeclineReasons = appendReason(result.DeclineReasons, domain.DeclineLimitExceeded)
			s.LogInfo(ctx, "Card spend over limit",
				slog.String("card_id", card.ID),
				slog.String("violation", evaluated.Violation.String()))
		}
	}
	return result, nil
}

// spendHistory combines settled card activity with the holds still reserving funds.
func (s *limitService) spendHistory(ctx context.Context, repos portsrepo.TxRepositories, filter portsrepo.SpendFilter, now time.Time) ([]domain.LimitUsage, error) {
	adjustments, err := repos.Adjustments.ListSpendAdjustments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load spend adjustments: %w", err)
	}
	holds, err := repos.Holds.ListActiveSpendHolds(ctx, filter, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load spend holds: %w", err)
	}

	history := make([]domain.LimitUsage, 0, len(adjustments)+len(holds))
	for _, adj := range adjustments {
		history = append(history, domain.LimitUsage{EffectiveDate: adj.EffectiveDate, Amount: adj.Amount})
	}
	for _, h := range holds {
		history = append(history, domain.LimitUsage{EffectiveDate: h.CreatedAt, Amount: h.Amount})
	}
	return history, nil
}

func (s *limitService) CheckBusinessLimit(ctx context.Context, repos portsrepo.TxRepositories, businessID string, limitType domain.LimitType, amount domain.Amount, now time.Time) (domain.LimitResult, error) {
	limit, err := repos.Limits.FindBusinessLimit(ctx, businessID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.LimitResult{}, nil
	}
	if err != nil {
		return domain.LimitResult{}, fmt.Errorf("failed to load business limit for %s: %w", businessID, err)
	}

	ceilings := limit.Limits.Ceilings(amount.Currency, limitType)
	if len(ceilings) == 0 {
		return domain.LimitResult{}, nil
	}

	var adjType domain.AdjustmentType
	switch limitType {
	case domain.LimitACHDeposit:
		adjType = domain.AdjustmentDeposit
	case domain.LimitACHWithdraw:
		adjType = domain.AdjustmentWithdraw
	default:
		return domain.LimitResult{}, fmt.Errorf("%w: %s is not a business limit type", apperrors.ErrValidation, limitType)
	}

	adjustments, err := repos.Adjustments.ListBusinessAdjustments(ctx, businessID, []domain.AdjustmentType{adjType}, now.Add(-domain.LongestLimitWindow))
	if err != nil {
		return domain.LimitResult{}, fmt.Errorf("failed to load business adjustments: %w", err)
	}
	history := make([]domain.LimitUsage, len(adjustments))
	for i, adj := range adjustments {
		history[i] = domain.LimitUsage{EffectiveDate: adj.EffectiveDate, Amount: adj.Amount}
	}
	return domain.EvaluateLimit(businessID, limitType, amount, history, ceilings, now), nil
}

func (s *limitService) GetTransactionLimit(ctx context.Context, businessID string, ownerType domain.LimitOwnerType, ownerID string) (*domain.TransactionLimit, error) {
	return s.repos.Limits.FindTransactionLimit(ctx, businessID, ownerType, ownerID)
}

func (s *limitService) SetTransactionLimit(ctx context.Context, req dto.SetTransactionLimitRequest, actor string) (*domain.TransactionLimit, error) {
	now := s.now()
	limit := domain.TransactionLimit{
		BusinessID:                    req.BusinessID,
		OwnerID:                       req.OwnerID,
		OwnerType:                     req.OwnerType,
		Limits:                        dto.ToLimits(req.Ceilings),
		DisabledMerchantCategoryCodes: req.DisabledMerchantCategoryCodes,
		DisableForeign:                req.DisableForeign,
	}
	if existing, err := s.repos.Limits.FindTransactionLimit(ctx, req.BusinessID, req.OwnerType, req.OwnerID); err == nil {
		limit.AuditFields = existing.AuditFields
		domain.StampUpdated(&limit.AuditFields, actor, now)
	} else if errors.Is(err, apperrors.ErrNotFound) {
		domain.StampCreated(&limit.AuditFields, actor, now)
	} else {
		return nil, err
	}

	if err := s.repos.Limits.SaveTransactionLimit(ctx, limit); err != nil {
		s.LogError(ctx, err, "Failed to save transaction limit", slog.String("owner_id", req.OwnerID))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction limit saved",
		slog.String("business_id", req.BusinessID),
		slog.String("owner_type", string(req.OwnerType)),
		slog.String("owner_id", req.OwnerID))
	return &limit, nil
}

func (s *limitService) SetBusinessLimit(ctx context.Context, req dto.SetBusinessLimitRequest, actor string) (*domain.BusinessLimit, error) {
	now := s.now()
	limit := domain.BusinessLimit{BusinessID: req.BusinessID, Limits: dto.ToLimits(req.Ceilings)}
	if existing, err := s.repos.Limits.FindBusinessLimit(ctx, req.BusinessID); err == nil {
		limit.AuditFields = existing.AuditFields
		domain.StampUpdated(&limit.AuditFields, actor, now)
	} else if errors.Is(err, apperrors.ErrNotFound) {
		domain.StampCreated(&limit.AuditFields, actor, now)
	} else {
		return nil, err
	}

	if err := s.repos.Limits.SaveBusinessLimit(ctx, limit); err != nil {
		s.LogError(ctx, err, "Failed to save business limit", slog.String("business_id", req.BusinessID))
		return nil, err
	}
	return &limit, nil
}

func appendReason(reasons []domain.DeclineReason, r domain.DeclineReason) []domain.DeclineReason {
	for _, existing := range reasons {
		if existing == r {
			return reasons
		}
	}
	return append(reasons, r)
}
