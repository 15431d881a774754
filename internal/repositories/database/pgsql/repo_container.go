package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the postgres repositories. The top-level
// repositories run on the pool; units of work get tx-bound copies.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	base := BaseRepository{db: dbPool}
	return portsrepo.RepositoryProvider{
		TxManager:       NewTxManager(dbPool, lockTimeout),
		Ledger:          &PgxLedgerRepository{base},
		Accounts:        &PgxAccountRepository{base},
		Holds:           &PgxHoldRepository{base},
		Adjustments:     &PgxAdjustmentRepository{base},
		Limits:          &PgxLimitRepository{base},
		NetworkMessages: &PgxNetworkMessageRepository{base},
		Cards:           &PgxCardRepository{base},
	}
}

func newTxRepositories(db DBTX) portsrepo.TxRepositories {
	base := BaseRepository{db: db}
	return portsrepo.TxRepositories{
		Ledger:          &PgxLedgerRepository{base},
		Accounts:        &PgxAccountRepository{base},
		Holds:           &PgxHoldRepository{base},
		Adjustments:     &PgxAdjustmentRepository{base},
		Limits:          &PgxLimitRepository{base},
		NetworkMessages: &PgxNetworkMessageRepository{base},
	}
}
