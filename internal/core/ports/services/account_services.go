package services

import (
	"context"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/SscSPs/card_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for accounts.
type AccountReaderSvc interface {
	// GetAccount returns the account with its active holds loaded.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	ListAdjustments(ctx context.Context, accountID string, params dto.ListAdjustmentsParams) (*dto.ListAdjustmentsResponse, error)
	Reconcile(ctx context.Context, accountID string) (*dto.ReconciliationResponse, error)
}

// AccountWriterSvc defines operations that move money or holds.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error)
	Deposit(ctx context.Context, accountID string, req dto.TransferRequest, actor string) (*domain.Adjustment, error)
	Withdraw(ctx context.Context, accountID string, req dto.TransferRequest, actor string) (*domain.Adjustment, error)
	Reallocate(ctx context.Context, req dto.ReallocateRequest, actor string) (*dto.ReallocationResponse, error)
	ReleaseHold(ctx context.Context, holdID string, actor string) (*domain.Hold, error)
	// ExpireHolds moves up to batchSize PLACED holds past their expiration to EXPIRED.
	ExpireHolds(ctx context.Context, asOf time.Time, batchSize int) (int, error)
}

type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
