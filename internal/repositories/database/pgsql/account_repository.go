package pgsql

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/card_ledger_app/internal/models"
	"github.com/SscSPs/card_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxAccountRepository struct {
	BaseRepository
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `
	account_id, business_id, allocation_id, ledger_account_id, account_type, owner_id,
	currency_code, ledger_balance, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		m.AccountID, m.BusinessID, m.AllocationID, m.LedgerAccountID, m.AccountType, m.OwnerID,
		m.CurrencyCode, m.LedgerBalance, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return translateError(err, "account "+account.ID)
}

func (r *PgxAccountRepository) findOne(ctx context.Context, query, accountID string) (*domain.Account, error) {
	rows, _ := r.db.Query(ctx, query, accountID)
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateError(err, "account "+accountID)
	}
	return mapping.ToDomainAccount(m), nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID)
}

func (r *PgxAccountRepository) FindAccountForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = $1 FOR UPDATE`, accountID)
}

// FindAccountsForUpdate locks rows in ascending id order so that concurrent
// multi-account operations cannot deadlock on each other.
func (r *PgxAccountRepository) FindAccountsForUpdate(ctx context.Context, accountIDs []string) (map[string]*domain.Account, error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	rows, _ := r.db.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE`, ids)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, translateError(err, "accounts")
	}

	accounts := make(map[string]*domain.Account, len(ms))
	for _, m := range ms {
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

func (r *PgxAccountRepository) UpdateLedgerBalance(ctx context.Context, accountID string, balance domain.Amount, updatedBy string, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET ledger_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND currency_code = $5`,
		accountID, balance.Value, updatedAt, updatedBy, string(balance.Currency))
	if err != nil {
		return translateError(err, "account "+accountID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s in %s", apperrors.ErrNotFound, accountID, balance.Currency)
	}
	return nil
}
