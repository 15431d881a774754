package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/card_ledger_app/internal/models"
	"github.com/SscSPs/card_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxHoldRepository struct {
	BaseRepository
}

var _ portsrepo.HoldRepository = (*PgxHoldRepository)(nil)

const holdColumns = `
	hold_id, business_id, account_id, allocation_id, card_id, status, amount, currency_code,
	expiration_date, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxHoldRepository) SaveHold(ctx context.Context, hold domain.Hold) error {
	m := mapping.ToModelHold(hold)
	_, err := r.db.Exec(ctx, `
		INSERT INTO holds (`+holdColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		m.HoldID, m.BusinessID, m.AccountID, m.AllocationID, m.CardID, m.Status, m.Amount, m.CurrencyCode,
		m.ExpirationDate, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return translateError(err, "hold "+hold.ID)
}

func (r *PgxHoldRepository) FindHoldByID(ctx context.Context, holdID string) (*domain.Hold, error) {
	rows, _ := r.db.Query(ctx, `SELECT `+holdColumns+` FROM holds WHERE hold_id = $1`, holdID)
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Hold])
	if err != nil {
		return nil, translateError(err, "hold "+holdID)
	}
	hold := mapping.ToDomainHold(m)
	return &hold, nil
}

func (r *PgxHoldRepository) list(ctx context.Context, what, query string, args ...any) ([]domain.Hold, error) {
	rows, _ := r.db.Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Hold])
	if err != nil {
		return nil, translateError(err, what)
	}
	return mapping.ToDomainHoldSlice(ms), nil
}

func (r *PgxHoldRepository) FindActiveHolds(ctx context.Context, accountID string, asOf time.Time) ([]domain.Hold, error) {
	return r.list(ctx, "holds of account "+accountID, `
		SELECT `+holdColumns+` FROM holds
		WHERE account_id = $1 AND status = 'PLACED' AND expiration_date > $2
		ORDER BY created_at, hold_id`, accountID, asOf)
}

// UpdateHoldStatus only moves holds out of PLACED. The conditional update
// makes a second settlement of the same hold fail instead of overwriting.
func (r *PgxHoldRepository) UpdateHoldStatus(ctx context.Context, holdID string, status domain.HoldStatus, updatedBy string, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE holds SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE hold_id = $1 AND status = 'PLACED'`, holdID, string(status), updatedAt, updatedBy)
	if err != nil {
		return translateError(err, "hold "+holdID)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	if err := r.db.QueryRow(ctx, `SELECT status FROM holds WHERE hold_id = $1`, holdID).Scan(&current); err != nil {
		return translateError(err, "hold "+holdID)
	}
	return fmt.Errorf("%w: hold %s is %s", apperrors.ErrInvalidHoldTransition, holdID, current)
}

func (r *PgxHoldRepository) ListExpiredHolds(ctx context.Context, asOf time.Time, limit int) ([]domain.Hold, error) {
	return r.list(ctx, "expired holds", `
		SELECT `+holdColumns+` FROM holds
		WHERE status = 'PLACED' AND expiration_date <= $1
		ORDER BY expiration_date, hold_id
		LIMIT $2`, asOf, limit)
}

// ListActiveSpendHolds returns card holds still reserving funds under the filter.
func (r *PgxHoldRepository) ListActiveSpendHolds(ctx context.Context, filter portsrepo.SpendFilter, asOf time.Time) ([]domain.Hold, error) {
	return r.list(ctx, "spend holds", `
		SELECT `+holdColumns+` FROM holds
		WHERE business_id = $1
		  AND card_id IS NOT NULL
		  AND ($2::varchar IS NULL OR card_id = $2)
		  AND ($3::varchar IS NULL OR allocation_id = $3)
		  AND status = 'PLACED' AND expiration_date > $4 AND created_at > $5`,
		filter.BusinessID, filter.CardID, filter.AllocationID, asOf, filter.Since)
}
