package repositories

import (
	"context"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

// CardRepository resolves network card references. It is the default
// adapter for the card lookup collaborator.
type CardRepository interface {
	FindCardByRef(ctx context.Context, cardRef string) (*domain.Card, error)
	SaveCard(ctx context.Context, card domain.Card) error
}
