package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/card_ledger_app/internal/models"
	"github.com/SscSPs/card_ledger_app/internal/utils/mapping"
	"github.com/SscSPs/card_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxAdjustmentRepository struct {
	BaseRepository
}

var _ portsrepo.AdjustmentRepository = (*PgxAdjustmentRepository)(nil)

const adjustmentColumns = `
	adjustment_id, business_id, allocation_id, card_id, account_id, ledger_account_id,
	journal_entry_id, posting_id, type, effective_date, amount, currency_code, created_at`

func (r *PgxAdjustmentRepository) SaveAdjustment(ctx context.Context, adjustment domain.Adjustment) error {
	m := mapping.ToModelAdjustment(adjustment)
	_, err := r.db.Exec(ctx, `
		INSERT INTO adjustments (`+adjustmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.AdjustmentID, m.BusinessID, m.AllocationID, m.CardID, m.AccountID, m.LedgerAccountID,
		m.JournalEntryID, m.PostingID, m.Type, m.EffectiveDate, m.Amount, m.CurrencyCode, m.CreatedAt)
	return translateError(err, "adjustment "+adjustment.ID)
}

func (r *PgxAdjustmentRepository) list(ctx context.Context, what, query string, args ...any) ([]domain.Adjustment, error) {
	rows, _ := r.db.Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Adjustment])
	if err != nil {
		return nil, translateError(err, what)
	}
	return mapping.ToDomainAdjustmentSlice(ms), nil
}

func (r *PgxAdjustmentRepository) FindAdjustmentsByJournalEntryID(ctx context.Context, journalEntryID string) ([]domain.Adjustment, error) {
	return r.list(ctx, "adjustments of journal entry "+journalEntryID, `
		SELECT `+adjustmentColumns+` FROM adjustments
		WHERE journal_entry_id = $1
		ORDER BY account_id`, journalEntryID)
}

// ListAdjustmentsByAccount pages newest first by (effective_date, adjustment_id).
// Ids are compared bytewise so the order matches the cursor encoding.
func (r *PgxAdjustmentRepository) ListAdjustmentsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) (*portsrepo.AdjustmentPage, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM adjustments WHERE account_id = $1`
	args := []any{accountID}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, err
		}
		query += ` AND (effective_date, adjustment_id COLLATE "C") < ($2, $3)`
		args = append(args, cursor.Time, cursor.ID)
	}
	query += ` ORDER BY effective_date DESC, adjustment_id COLLATE "C" DESC`
	if limit > 0 {
		// Fetch one extra row to know whether another page exists.
		args = append(args, limit+1)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	adjustments, err := r.list(ctx, "adjustments of account "+accountID, query, args...)
	if err != nil {
		return nil, err
	}
	page := &portsrepo.AdjustmentPage{Adjustments: adjustments}
	if limit > 0 && len(adjustments) > limit {
		page.Adjustments = adjustments[:limit]
		last := page.Adjustments[limit-1]
		token := pagination.EncodeCursor(last.EffectiveDate, last.ID)
		page.NextToken = &token
	}
	return page, nil
}

func (r *PgxAdjustmentRepository) SumAdjustments(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM adjustments WHERE account_id = $1`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, translateError(err, "adjustments of account "+accountID)
	}
	return sum, nil
}

func (r *PgxAdjustmentRepository) ListBusinessAdjustments(ctx context.Context, businessID string, types []domain.AdjustmentType, since time.Time) ([]domain.Adjustment, error) {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return r.list(ctx, "adjustments of business "+businessID, `
		SELECT `+adjustmentColumns+` FROM adjustments
		WHERE business_id = $1 AND type = ANY($2) AND effective_date > $3
		ORDER BY effective_date`, businessID, names, since)
}

// ListSpendAdjustments returns card network activity plus reversals of it.
func (r *PgxAdjustmentRepository) ListSpendAdjustments(ctx context.Context, filter portsrepo.SpendFilter) ([]domain.Adjustment, error) {
	return r.list(ctx, "spend adjustments", `
		SELECT `+adjustmentColumns+` FROM adjustments
		WHERE business_id = $1
		  AND card_id IS NOT NULL
		  AND ($2::varchar IS NULL OR card_id = $2)
		  AND ($3::varchar IS NULL OR allocation_id = $3)
		  AND type IN ('NETWORK_CAPTURE', 'NETWORK_REFUND', 'REVERSAL')
		  AND effective_date > $4
		ORDER BY effective_date`,
		filter.BusinessID, filter.CardID, filter.AllocationID, filter.Since)
}
