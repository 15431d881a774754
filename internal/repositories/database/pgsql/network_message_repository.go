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

type PgxNetworkMessageRepository struct {
	BaseRepository
}

var _ portsrepo.NetworkMessageRepository = (*PgxNetworkMessageRepository)(nil)

const networkMessageColumns = `
	network_message_id, card_ref, card_id, business_id, allocation_id, account_id, external_ref,
	authorization_external_ref, type, requested_amount, approved_amount, currency_code, approved,
	hold_id, adjustment_id, decline_reasons, merchant_name, merchant_category_code, created_at`

// SaveNetworkMessage relies on the (card_ref, external_ref, type) unique
// constraint; a redelivery surfaces as apperrors.ErrDuplicate.
func (r *PgxNetworkMessageRepository) SaveNetworkMessage(ctx context.Context, message domain.NetworkMessage) error {
	m := mapping.ToModelNetworkMessage(message)
	_, err := r.db.Exec(ctx, `
		INSERT INTO network_messages (`+networkMessageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		m.NetworkMessageID, m.CardRef, m.CardID, m.BusinessID, m.AllocationID, m.AccountID, m.ExternalRef,
		m.AuthorizationExternalRef, m.Type, m.RequestedAmount, m.ApprovedAmount, m.CurrencyCode, m.Approved,
		m.HoldID, m.AdjustmentID, m.DeclineReasons, m.MerchantName, m.MerchantCategoryCode, m.CreatedAt)
	return translateError(err, fmt.Sprintf("network message %s/%s/%s", message.CardRef, message.ExternalRef, message.Type))
}

func (r *PgxNetworkMessageRepository) findOne(ctx context.Context, what, query string, args ...any) (*domain.NetworkMessage, error) {
	rows, _ := r.db.Query(ctx, query, args...)
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.NetworkMessage])
	if err != nil {
		return nil, translateError(err, what)
	}
	return mapping.ToDomainNetworkMessage(m), nil
}

func (r *PgxNetworkMessageRepository) FindNetworkMessage(ctx context.Context, cardRef, externalRef string, t domain.NetworkMessageType) (*domain.NetworkMessage, error) {
	return r.findOne(ctx, fmt.Sprintf("network message %s/%s/%s", cardRef, externalRef, t), `
		SELECT `+networkMessageColumns+` FROM network_messages
		WHERE card_ref = $1 AND external_ref = $2 AND type = $3`, cardRef, externalRef, string(t))
}

func (r *PgxNetworkMessageRepository) FindPriorAuthorization(ctx context.Context, cardRef, authorizationExternalRef string) (*domain.NetworkMessage, error) {
	return r.findOne(ctx, "authorization "+authorizationExternalRef, `
		SELECT `+networkMessageColumns+` FROM network_messages
		WHERE card_ref = $1 AND authorization_external_ref = $2
		  AND type IN ('AUTH_REQUEST', 'PRE_AUTH') AND approved
		ORDER BY seq
		LIMIT 1`, cardRef, authorizationExternalRef)
}

func (r *PgxNetworkMessageRepository) ListAuthorizationHoldIDs(ctx context.Context, cardRef, authorizationExternalRef string) ([]string, error) {
	rows, _ := r.db.Query(ctx, `
		SELECT hold_id FROM network_messages
		WHERE card_ref = $1 AND authorization_external_ref = $2 AND hold_id IS NOT NULL
		ORDER BY seq`, cardRef, authorizationExternalRef)
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, translateError(err, "holds of authorization "+authorizationExternalRef)
	}
	return ids, nil
}

func (r *PgxNetworkMessageRepository) FindLatestAuthorization(ctx context.Context, cardRef, authorizationExternalRef string) (*domain.NetworkMessage, error) {
	return r.findOne(ctx, "authorization "+authorizationExternalRef, `
		SELECT `+networkMessageColumns+` FROM network_messages
		WHERE card_ref = $1 AND authorization_external_ref = $2
		  AND type IN ('AUTH_REQUEST', 'PRE_AUTH')
		ORDER BY seq DESC
		LIMIT 1`, cardRef, authorizationExternalRef)
}
