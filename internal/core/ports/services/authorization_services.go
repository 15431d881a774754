package services

import (
	"context"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

// CardResolver looks up the business, allocation and account behind a card
// reference. Unknown cards return apperrors.ErrNotFound.
type CardResolver interface {
	ResolveCard(ctx context.Context, cardRef string) (*domain.Card, error)
}

// AuthorizationSvcFacade turns card network events into decisions.
type AuthorizationSvcFacade interface {
	// ProcessNetworkEvent returns the response for the network. Business
	// declines are responses, not errors. An error means the event was
	// rejected before reaching the ledger (apperrors.ErrValidation or
	// apperrors.ErrNotFound), or that a settlement or reversal could not be
	// recorded and must be redelivered (*apperrors.AppError with 503).
	ProcessNetworkEvent(ctx context.Context, event domain.NetworkEvent) (*domain.AuthorizationResponse, error)
}
