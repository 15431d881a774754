package services

import (
	"context"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/card_ledger_app/internal/dto"
)

// SpendCheck is a proposed card purchase.
type SpendCheck struct {
	Card     *domain.Card
	Amount   domain.Amount
	Merchant domain.Merchant
	Foreign  bool
	Now      time.Time
}

// SpendCheckResult is empty when the purchase is within every control and limit.
type SpendCheckResult struct {
	DeclineReasons []domain.DeclineReason
	Violation      *domain.LimitViolation
}

func (r SpendCheckResult) Allowed() bool {
	return len(r.DeclineReasons) == 0
}

// LimitSvcFacade evaluates and manages spend and transfer ceilings. The
// check methods read through the given unit of work so they observe the same
// state as the decision that follows.
type LimitSvcFacade interface {
	CheckCardSpend(ctx context.Context, repos repositories.TxRepositories, check SpendCheck) (SpendCheckResult, error)
	CheckBusinessLimit(ctx context.Context, repos repositories.TxRepositories, businessID string, limitType domain.LimitType, amount domain.Amount, now time.Time) (domain.LimitResult, error)

	GetTransactionLimit(ctx context.Context, businessID string, ownerType domain.LimitOwnerType, ownerID string) (*domain.TransactionLimit, error)
	SetTransactionLimit(ctx context.Context, req dto.SetTransactionLimitRequest, actor string) (*domain.TransactionLimit, error)
	SetBusinessLimit(ctx context.Context, req dto.SetBusinessLimitRequest, actor string) (*domain.BusinessLimit, error)
}
