package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
)

func (r *repo) SaveNetworkMessage(_ context.Context, message domain.NetworkMessage) error {
	return r.with(func(d *state) error {
		for _, m := range d.messages {
			if m.CardRef == message.CardRef && m.ExternalRef == message.ExternalRef && m.Type == message.Type {
				return fmt.Errorf("%w: network message %s/%s/%s", apperrors.ErrDuplicate, message.CardRef, message.ExternalRef, message.Type)
			}
		}
		d.messages = append(d.messages, message)
		return nil
	})
}

func (r *repo) FindNetworkMessage(_ context.Context, cardRef, externalRef string, t domain.NetworkMessageType) (*domain.NetworkMessage, error) {
	var out *domain.NetworkMessage
	err := r.with(func(d *state) error {
		for _, m := range d.messages {
			if m.CardRef == cardRef && m.ExternalRef == externalRef && m.Type == t {
				m := m
				out = &m
				return nil
			}
		}
		return fmt.Errorf("%w: network message %s/%s/%s", apperrors.ErrNotFound, cardRef, externalRef, t)
	})
	return out, err
}

// Messages are kept in insertion order, so the first match is the earliest.
func (r *repo) FindPriorAuthorization(_ context.Context, cardRef, authorizationExternalRef string) (*domain.NetworkMessage, error) {
	var out *domain.NetworkMessage
	err := r.with(func(d *state) error {
		for _, m := range d.messages {
			if m.CardRef == cardRef && m.AuthorizationExternalRef == authorizationExternalRef && m.Type.IsAuthorization() && m.Approved {
				m := m
				out = &m
				return nil
			}
		}
		return fmt.Errorf("%w: authorization %s", apperrors.ErrNotFound, authorizationExternalRef)
	})
	return out, err
}

func (r *repo) ListAuthorizationHoldIDs(_ context.Context, cardRef, authorizationExternalRef string) ([]string, error) {
	var out []string
	err := r.with(func(d *state) error {
		for _, m := range d.messages {
			if m.CardRef == cardRef && m.AuthorizationExternalRef == authorizationExternalRef && m.HoldID != nil {
				out = append(out, *m.HoldID)
			}
		}
		return nil
	})
	return out, err
}

func (r *repo) FindLatestAuthorization(_ context.Context, cardRef, authorizationExternalRef string) (*domain.NetworkMessage, error) {
	var out *domain.NetworkMessage
	err := r.with(func(d *state) error {
		for i := len(d.messages) - 1; i >= 0; i-- {
			m := d.messages[i]
			if m.CardRef == cardRef && m.AuthorizationExternalRef == authorizationExternalRef && m.Type.IsAuthorization() {
				out = &m
				return nil
			}
		}
		return fmt.Errorf("%w: authorization %s", apperrors.ErrNotFound, authorizationExternalRef)
	})
	return out, err
}
