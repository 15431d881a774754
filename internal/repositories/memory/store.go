// Package memory is an in-process implementation of the repository ports.
// It backs the service tests and local runs without postgres.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
)

type state struct {
	ledgerAccounts map[string]domain.LedgerAccount
	journalEntries map[string]domain.JournalEntry
	accounts       map[string]domain.Account
	holds          map[string]domain.Hold
	adjustments    []domain.Adjustment
	txLimits       map[string]domain.TransactionLimit
	businessLimits map[string]domain.BusinessLimit
	messages       []domain.NetworkMessage
	cards          map[string]domain.Card
}

func newState() *state {
	return &state{
		ledgerAccounts: make(map[string]domain.LedgerAccount),
		journalEntries: make(map[string]domain.JournalEntry),
		accounts:       make(map[string]domain.Account),
		holds:          make(map[string]domain.Hold),
		txLimits:       make(map[string]domain.TransactionLimit),
		businessLimits: make(map[string]domain.BusinessLimit),
		cards:          make(map[string]domain.Card),
	}
}

// clone copies every table. Stored values are never mutated in place, so a
// shallow copy of each map and slice is a consistent snapshot.
func (s *state) clone() *state {
	return &state{
		ledgerAccounts: maps.Clone(s.ledgerAccounts),
		journalEntries: maps.Clone(s.journalEntries),
		accounts:       maps.Clone(s.accounts),
		holds:          maps.Clone(s.holds),
		adjustments:    slices.Clone(s.adjustments),
		txLimits:       maps.Clone(s.txLimits),
		businessLimits: maps.Clone(s.businessLimits),
		messages:       slices.Clone(s.messages),
		cards:          maps.Clone(s.cards),
	}
}

// Store holds all data in memory. Units of work run one at a time and are
// rolled back by restoring the snapshot taken when they started.
type Store struct {
	mu   sync.Mutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

// Repositories returns the provider used by the services. Its repositories
// lock the store per call and must not be used inside a unit of work; use
// the TxRepositories handed to the TxFunc instead.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	r := &repo{store: s}
	return portsrepo.RepositoryProvider{
		TxManager:       s,
		Ledger:          r,
		Accounts:        r,
		Holds:           r,
		Adjustments:     r,
		Limits:          r,
		NetworkMessages: r,
		Cards:           r,
	}
}

// RunInTx implements repositories.TransactionManager.
func (s *Store) RunInTx(ctx context.Context, fn portsrepo.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	r := &repo{store: s, inTx: true}
	err := fn(ctx, portsrepo.TxRepositories{
		Ledger:          r,
		Accounts:        r,
		Holds:           r,
		Adjustments:     r,
		Limits:          r,
		NetworkMessages: r,
	})
	if err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// repo implements every repository port over the store.
type repo struct {
	store *Store
	inTx  bool
}

// with runs fn against the current data, taking the store lock unless the
// caller already holds it through RunInTx.
func (r *repo) with(fn func(d *state) error) error {
	if !r.inTx {
		r.store.mu.Lock()
		defer r.store.mu.Unlock()
	}
	return fn(r.store.data)
}

var (
	_ portsrepo.TransactionManager       = (*Store)(nil)
	_ portsrepo.LedgerRepository         = (*repo)(nil)
	_ portsrepo.AccountRepository        = (*repo)(nil)
	_ portsrepo.HoldRepository           = (*repo)(nil)
	_ portsrepo.AdjustmentRepository     = (*repo)(nil)
	_ portsrepo.LimitRepository          = (*repo)(nil)
	_ portsrepo.NetworkMessageRepository = (*repo)(nil)
	_ portsrepo.CardRepository           = (*repo)(nil)
)
