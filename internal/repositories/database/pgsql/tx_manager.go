package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/card_ledger_app/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxManager runs units of work in READ COMMITTED transactions. Row locks are
// taken explicitly with SELECT ... FOR UPDATE; lock waits longer than
// lockTimeout fail with apperrors.ErrConcurrencyConflict.
type TxManager struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

func NewTxManager(pool *pgxpool.Pool, lockTimeout time.Duration) *TxManager {
	return &TxManager{pool: pool, lockTimeout: lockTimeout}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

func (m *TxManager) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return translateError(err, "begin transaction")
	}
	// Will be ignored if transaction is committed successfully
	defer func() {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to roll back transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if m.lockTimeout > 0 {
		// SET does not accept bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return translateError(err, "set lock timeout")
		}
	}

	if err := fn(ctx, newTxRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translateError(err, "commit transaction")
	}
	return nil
}
