package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/card_ledger_app/internal/models"
	"github.com/SscSPs/card_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxLimitRepository struct {
	BaseRepository
}

var _ portsrepo.LimitRepository = (*PgxLimitRepository)(nil)

func (r *PgxLimitRepository) FindTransactionLimit(ctx context.Context, businessID string, ownerType domain.LimitOwnerType, ownerID string) (*domain.TransactionLimit, error) {
	rows, _ := r.db.Query(ctx, `
		SELECT business_id, owner_type, owner_id, limits, disabled_merchant_category_codes, disable_foreign,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM transaction_limits
		WHERE business_id = $1 AND owner_type = $2 AND owner_id = $3`, businessID, string(ownerType), ownerID)
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.TransactionLimit])
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("%s limit for %s", ownerType, ownerID))
	}
	return mapping.ToDomainTransactionLimit(m)
}

// SaveTransactionLimit replaces the owner's limits, keeping the creation audit.
func (r *PgxLimitRepository) SaveTransactionLimit(ctx context.Context, limit domain.TransactionLimit) error {
	m, err := mapping.ToModelTransactionLimit(limit)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO transaction_limits (
			business_id, owner_type, owner_id, limits, disabled_merchant_category_codes, disable_foreign,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (business_id, owner_type, owner_id) DO UPDATE SET
			limits = EXCLUDED.limits,
			disabled_merchant_category_codes = EXCLUDED.disabled_merchant_category_codes,
			disable_foreign = EXCLUDED.disable_foreign,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`,
		m.BusinessID, m.OwnerType, m.OwnerID, m.Limits, m.DisabledMerchantCategoryCodes, m.DisableForeign,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return translateError(err, fmt.Sprintf("%s limit for %s", limit.OwnerType, limit.OwnerID))
}

func (r *PgxLimitRepository) FindBusinessLimit(ctx context.Context, businessID string) (*domain.BusinessLimit, error) {
	rows, _ := r.db.Query(ctx, `
		SELECT business_id, limits, created_at, created_by, last_updated_at, last_updated_by
		FROM business_limits WHERE business_id = $1`, businessID)
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.BusinessLimit])
	if err != nil {
		return nil, translateError(err, "business limit for "+businessID)
	}
	return mapping.ToDomainBusinessLimit(m)
}

func (r *PgxLimitRepository) SaveBusinessLimit(ctx context.Context, limit domain.BusinessLimit) error {
	m, err := mapping.ToModelBusinessLimit(limit)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO business_limits (business_id, limits, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (business_id) DO UPDATE SET
			limits = EXCLUDED.limits,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by`,
		m.BusinessID, m.Limits, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return translateError(err, "business limit for "+limit.BusinessID)
}
