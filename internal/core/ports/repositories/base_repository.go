package repositories

import "context"

// TxRepositories are bound to one unit of work. Every write made through them
// commits or rolls back together.
type TxRepositories struct {
	Ledger          LedgerRepository
	Accounts        AccountRepository
	Holds           HoldRepository
	Adjustments     AdjustmentRepository
	Limits          LimitRepository
	NetworkMessages NetworkMessageRepository
}

// TxFunc is the body of a unit of work.
type TxFunc func(ctx context.Context, repos TxRepositories) error

// TransactionManager runs a TxFunc atomically. Returning an error from fn
// rolls everything back. Lost races surface as apperrors.ErrConcurrencyConflict.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn TxFunc) error
}
