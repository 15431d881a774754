package repositories

import (
	"context"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

type NetworkMessageRepository interface {
	// SaveNetworkMessage returns apperrors.ErrDuplicate when a message with
	// the same card ref, external ref and type already exists.
	SaveNetworkMessage(ctx context.Context, message domain.NetworkMessage) error
	FindNetworkMessage(ctx context.Context, cardRef, externalRef string, t domain.NetworkMessageType) (*domain.NetworkMessage, error)
	// FindPriorAuthorization returns the earliest approved AUTH_REQUEST or
	// PRE_AUTH message sharing the authorization reference, or ErrNotFound.
	FindPriorAuthorization(ctx context.Context, cardRef, authorizationExternalRef string) (*domain.NetworkMessage, error)
	// ListAuthorizationHoldIDs returns the hold ids recorded on every message
	// sharing the authorization reference, in the order the messages were saved.
	ListAuthorizationHoldIDs(ctx context.Context, cardRef, authorizationExternalRef string) ([]string, error)
	// FindLatestAuthorization returns the newest AUTH_REQUEST or PRE_AUTH
	// message for the authorization reference, approved or not.
	FindLatestAuthorization(ctx context.Context, cardRef, authorizationExternalRef string) (*domain.NetworkMessage, error)
}

// OutcomeCache keeps recent network responses so redeliveries can be
// answered without a database round trip. Misses return apperrors.ErrNotFound.
type OutcomeCache interface {
	GetOutcome(ctx context.Context, key string) (*domain.AuthorizationResponse, error)
	SetOutcome(ctx context.Context, key string, resp domain.AuthorizationResponse) error
}
