package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for accounts.
type AccountReader interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// FindAccountForUpdate loads the account and locks its row until the
	// surrounding unit of work ends.
	FindAccountForUpdate(ctx context.Context, accountID string) (*domain.Account, error)
	// FindAccountsForUpdate locks several rows in ascending id order.
	FindAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]*domain.Account, error)
}

// AccountWriter defines write operations for accounts.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateLedgerBalance(ctx context.Context, accountID string, balance domain.Amount, updatedBy string, updatedAt time.Time) error
}

type AccountRepository interface {
	AccountReader
	AccountWriter
}
