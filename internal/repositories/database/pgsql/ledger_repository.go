package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/card_ledger_app/internal/models"
	"github.com/SscSPs/card_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepository
var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

const ledgerAccountColumns = `ledger_account_id, type, currency_code, created_at`

func (r *PgxLedgerRepository) FindLedgerAccountByID(ctx context.Context, ledgerAccountID string) (*domain.LedgerAccount, error) {
	rows, _ := r.db.Query(ctx, `SELECT `+ledgerAccountColumns+` FROM ledger_accounts WHERE ledger_account_id = $1`, ledgerAccountID)
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.LedgerAccount])
	if err != nil {
		return nil, translateError(err, "ledger account "+ledgerAccountID)
	}
	return mapping.ToDomainLedgerAccount(m), nil
}

func (r *PgxLedgerRepository) FindSystemLedgerAccount(ctx context.Context, t domain.LedgerAccountType, currency domain.Currency) (*domain.LedgerAccount, error) {
	rows, _ := r.db.Query(ctx, `SELECT `+ledgerAccountColumns+` FROM ledger_accounts WHERE type = $1 AND currency_code = $2`, string(t), string(currency))
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.LedgerAccount])
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("%s ledger account for %s", t, currency))
	}
	return mapping.ToDomainLedgerAccount(m), nil
}

// SaveLedgerAccount inserts a ledger account. A system ledger account that
// already exists for the type and currency is left untouched.
func (r *PgxLedgerRepository) SaveLedgerAccount(ctx context.Context, ledgerAccount domain.LedgerAccount) error {
	m := mapping.ToModelLedgerAccount(ledgerAccount)
	query := `
		INSERT INTO ledger_accounts (ledger_account_id, type, currency_code, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if ledgerAccount.Type.IsSystem() {
		query += ` ON CONFLICT (type, currency_code) WHERE type IN ('BANK', 'NETWORK', 'MANUAL', 'CLEARING') DO NOTHING`
	}
	_, err := r.db.Exec(ctx, query, m.LedgerAccountID, m.Type, m.CurrencyCode, m.CreatedAt)
	return translateError(err, "ledger account "+ledgerAccount.ID)
}

// SaveJournalEntry inserts the entry and all of its postings.
func (r *PgxLedgerRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	m, postings := mapping.ToModelJournalEntry(entry)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO journal_entries (journal_entry_id, reversed_journal_entry_id, reversal_journal_entry_id, created_at)
		VALUES ($1, $2, $3, $4)`,
		m.JournalEntryID, m.ReversedJournalEntryID, m.ReversalJournalEntryID, m.CreatedAt)
	for _, p := range postings {
		batch.Queue(`
			INSERT INTO postings (posting_id, journal_entry_id, ledger_account_id, amount, currency_code, effective_date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.PostingID, p.JournalEntryID, p.LedgerAccountID, p.Amount, p.CurrencyCode, p.EffectiveDate, p.CreatedAt)
	}

	br := r.db.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return translateError(err, "journal entry "+entry.ID)
		}
	}
	return translateError(br.Close(), "journal entry "+entry.ID)
}

func (r *PgxLedgerRepository) FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	rows, _ := r.db.Query(ctx, `
		SELECT journal_entry_id, reversed_journal_entry_id, reversal_journal_entry_id, created_at
		FROM journal_entries WHERE journal_entry_id = $1`, journalEntryID)
	entry, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, translateError(err, "journal entry "+journalEntryID)
	}

	rows, _ = r.db.Query(ctx, `
		SELECT posting_id, journal_entry_id, ledger_account_id, amount, currency_code, effective_date, created_at
		FROM postings WHERE journal_entry_id = $1
		ORDER BY posting_id`, journalEntryID)
	postings, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Posting])
	if err != nil {
		return nil, translateError(err, "postings of journal entry "+journalEntryID)
	}
	return mapping.ToDomainJournalEntry(entry, postings), nil
}

// MarkJournalEntryReversed only links an entry that has no reversal yet, so
// two concurrent reversals cannot both succeed.
func (r *PgxLedgerRepository) MarkJournalEntryReversed(ctx context.Context, originalID, reversalID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE journal_entries SET reversal_journal_entry_id = $2
		WHERE journal_entry_id = $1 AND reversal_journal_entry_id IS NULL`, originalID, reversalID)
	if err != nil {
		return translateError(err, "journal entry "+originalID)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE journal_entry_id = $1)`, originalID).Scan(&exists); err != nil {
		return translateError(err, "journal entry "+originalID)
	}
	if !exists {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, originalID)
	}
	return fmt.Errorf("%w: %s", apperrors.ErrAlreadyReversed, originalID)
}

func (r *PgxLedgerRepository) SumPostings(ctx context.Context, ledgerAccountID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM postings WHERE ledger_account_id = $1`, ledgerAccountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, translateError(err, "postings of ledger account "+ledgerAccountID)
	}
	return sum, nil
}
