package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAdjustments(ctx context.Context, accountID string, params dto.ListAdjustmentsParams) (*dto.ListAdjustmentsResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAdjustmentsResponse), args.Error(1)
}
func (m *MockAccountService) Reconcile(ctx context.Context, accountID string) (*dto.ReconciliationResponse, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReconciliationResponse), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) Deposit(ctx context.Context, accountID string, req dto.TransferRequest, actor string) (*domain.Adjustment, error) {
	args := m.Called(ctx, accountID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Adjustment), args.Error(1)
}
func (m *MockAccountService) Withdraw(ctx context.Context, accountID string, req dto.TransferRequest, actor string) (*domain.Adjustment, error) {
	args := m.Called(ctx, accountID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Adjustment), args.Error(1)
}
func (m *MockAccountService) Reallocate(ctx context.Context, req dto.ReallocateRequest, actor string) (*dto.ReallocationResponse, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReallocationResponse), args.Error(1)
}
func (m *MockAccountService) ReleaseHold(ctx context.Context, holdID string, actor string) (*domain.Hold, error) {
	args := m.Called(ctx, holdID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}
func (m *MockAccountService) ExpireHolds(ctx context.Context, asOf time.Time, batchSize int) (int, error) {
	args := m.Called(ctx, asOf, batchSize)
	return args.Int(0), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetLedgerAccount(ctx context.Context, ledgerAccountID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, ledgerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}
func (m *MockLedgerService) GetJournalEntry(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalEntryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) ReverseJournalEntry(ctx context.Context, journalEntryID string, actor string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalEntryID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock LimitService ---
type MockLimitService struct {
	mock.Mock
}

func (m *MockLimitService) CheckCardSpend(ctx context.Context, repos repositories.TxRepositories, check portssvc.SpendCheck) (portssvc.SpendCheckResult, error) {
	args := m.Called(ctx, repos, check)
	return args.Get(0).(portssvc.SpendCheckResult), args.Error(1)
}
func (m *MockLimitService) CheckBusinessLimit(ctx context.Context, repos repositories.TxRepositories, businessID string, limitType domain.LimitType, amount domain.Amount, now time.Time) (domain.LimitResult, error) {
	args := m.Called(ctx, repos, businessID, limitType, amount, now)
	return args.Get(0).(domain.LimitResult), args.Error(1)
}
func (m *MockLimitService) GetTransactionLimit(ctx context.Context, businessID string, ownerType domain.LimitOwnerType, ownerID string) (*domain.TransactionLimit, error) {
	args := m.Called(ctx, businessID, ownerType, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionLimit), args.Error(1)
}
func (m *MockLimitService) SetTransactionLimit(ctx context.Context, req dto.SetTransactionLimitRequest, actor string) (*domain.TransactionLimit, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionLimit), args.Error(1)
}
func (m *MockLimitService) SetBusinessLimit(ctx context.Context, req dto.SetBusinessLimitRequest, actor string) (*domain.BusinessLimit, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessLimit), args.Error(1)
}

var _ portssvc.LimitSvcFacade = (*MockLimitService)(nil)

// --- Mock AuthorizationService ---
type MockAuthorizationService struct {
	mock.Mock
}

func (m *MockAuthorizationService) ProcessNetworkEvent(ctx context.Context, event domain.NetworkEvent) (*domain.AuthorizationResponse, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthorizationResponse), args.Error(1)
}

var _ portssvc.AuthorizationSvcFacade = (*MockAuthorizationService)(nil)
