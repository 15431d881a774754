package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

func (r *repo) FindCardByRef(_ context.Context, cardRef string) (*domain.Card, error) {
	var out *domain.Card
	err := r.with(func(d *state) error {
		c, ok := d.cards[cardRef]
		if !ok {
			return fmt.Errorf("%w: card %s", apperrors.ErrNotFound, cardRef)
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *repo) SaveCard(_ context.Context, card domain.Card) error {
	return r.with(func(d *state) error {
		d.cards[card.CardRef] = card
		return nil
	})
}

// ResolveCard lets the store act as the card lookup collaborator.
func (s *Store) ResolveCard(ctx context.Context, cardRef string) (*domain.Card, error) {
	return (&repo{store: s}).FindCardByRef(ctx, cardRef)
}
