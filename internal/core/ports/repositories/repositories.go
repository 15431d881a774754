package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// The embedded repositories run outside any unit of work and are used for
// plain reads.
type RepositoryProvider struct {
	TxManager       TransactionManager
	Ledger          LedgerRepository
	Accounts        AccountRepository
	Holds           HoldRepository
	Adjustments     AdjustmentRepository
	Limits          LimitRepository
	NetworkMessages NetworkMessageRepository
	Cards           CardRepository
}
