package pgsql

import (
	"context"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/models"
	"github.com/SscSPs/card_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCardRepository struct {
	BaseRepository
}

var (
	_ portsrepo.CardRepository = (*PgxCardRepository)(nil)
	_ portssvc.CardResolver    = (*PgxCardRepository)(nil)
)

// NewCardResolver returns the cards table as the card lookup used by the
// decision engine.
func NewCardResolver(dbPool *pgxpool.Pool) *PgxCardRepository {
	return &PgxCardRepository{BaseRepository{db: dbPool}}
}

func (r *PgxCardRepository) FindCardByRef(ctx context.Context, cardRef string) (*domain.Card, error) {
	rows, _ := r.db.Query(ctx, `
		SELECT card_id, card_ref, business_id, allocation_id, account_id, status, last_four
		FROM cards WHERE card_ref = $1`, cardRef)
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Card])
	if err != nil {
		return nil, translateError(err, "card "+cardRef)
	}
	return mapping.ToDomainCard(m), nil
}

func (r *PgxCardRepository) ResolveCard(ctx context.Context, cardRef string) (*domain.Card, error) {
	return r.FindCardByRef(ctx, cardRef)
}

// SaveCard inserts or refreshes the card behind a reference.
func (r *PgxCardRepository) SaveCard(ctx context.Context, card domain.Card) error {
	m := mapping.ToModelCard(card)
	_, err := r.db.Exec(ctx, `
		INSERT INTO cards (card_id, card_ref, business_id, allocation_id, account_id, status, last_four)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (card_ref) DO UPDATE SET
			status = EXCLUDED.status,
			allocation_id = EXCLUDED.allocation_id,
			account_id = EXCLUDED.account_id`,
		m.CardID, m.CardRef, m.BusinessID, m.AllocationID, m.AccountID, m.Status, m.LastFour)
	return translateError(err, "card "+card.CardRef)
}
