package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/platform/metrics"
)

// recordTimeout bounds the best-effort write of a PROCESSING_ERROR decline
// after the decision itself failed or timed out.
const recordTimeout = 2 * time.Second

type authorizationService struct {
	BaseService
	repos       portsrepo.RepositoryProvider
	cards       portssvc.CardResolver
	limits      portssvc.LimitSvcFacade
	cache       portsrepo.OutcomeCache
	metrics     *metrics.DecisionMetrics
	timeout     time.Duration
	homeCountry string
	handlers    map[domain.NetworkMessageType]networkHandler
}

// NewAuthorizationService creates the decision engine. It fails if any
// network message type has no handler.
func NewAuthorizationService(repos portsrepo.RepositoryProvider, cards portssvc.CardResolver, limits portssvc.LimitSvcFacade, options ...Option) (portssvc.AuthorizationSvcFacade, error) {
	o := buildOptions(options)
	s := &authorizationService{
		BaseService: newBaseService(repos.TxManager, o),
		repos:       repos,
		cards:       cards,
		limits:      limits,
		cache:       o.cache,
		metrics:     o.decisionMetrics(),
		timeout:     o.decisionTimeout,
		homeCountry: o.homeCountry,
	}
	s.handlers = s.handlerTable()
	if err := validateHandlerTable(s.handlers); err != nil {
		return nil, err
	}
	return s, nil
}

func validateHandlerTable(handlers map[domain.NetworkMessageType]networkHandler) error {
	var missing []string
	for _, t := range domain.AllNetworkMessageTypes {
		if handlers[t] == nil {
			missing = append(missing, string(t))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no network handler registered for %s", strings.Join(missing, ", "))
	}
	return nil
}

var _ portssvc.AuthorizationSvcFacade = (*authorizationService)(nil)

func outcomeKey(event domain.NetworkEvent) string {
	return fmt.Sprintf("%s:%s:%s", event.CardRef, event.ExternalRef, event.Type)
}

func (s *authorizationService) ProcessNetworkEvent(ctx context.Context, event domain.NetworkEvent) (*domain.AuthorizationResponse, error) {
	if err := s.validateEvent(event); err != nil {
		return nil, err
	}
	logger := s.GetLogger(ctx).With(
		slog.String("card_ref", event.CardRef),
		slog.String("external_ref", event.ExternalRef),
		slog.String("message_type", string(event.Type)))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if resp, ok := s.storedOutcome(ctx, event); ok {
		logger.Info("Replaying stored network outcome", slog.Bool("approved", resp.Approved))
		return resp, nil
	}

	card, err := s.cards.ResolveCard(ctx, event.CardRef)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Network event for unknown card")
			return nil, fmt.Errorf("%w: card %s", apperrors.ErrNotFound, event.CardRef)
		}
		logger.Error("Failed to resolve card", slog.String("error", err.Error()))
		return nil, apperrors.NewAppError(http.StatusServiceUnavailable, "card lookup unavailable", err)
	}

	started := time.Now()
	var resp domain.AuthorizationResponse
	err = s.tx.run(ctx, "network event", func(ctx context.Context, repos portsrepo.TxRepositories) error {
		now := s.now()
		c := domain.NewNetworkCommon(event)
		c.Card = card
		if err := s.handlers[event.Type](ctx, repos, c, now); err != nil {
			return err
		}
		if err := repos.NetworkMessages.SaveNetworkMessage(ctx, *domain.NewNetworkMessage(c, now)); err != nil {
			return err
		}
		resp = c.Response()
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrDuplicate):
		// A concurrent delivery of the same event committed first.
		stored, findErr := s.repos.NetworkMessages.FindNetworkMessage(ctx, event.CardRef, event.ExternalRef, event.Type)
		if findErr != nil {
			logger.Error("Failed to load winning network outcome", slog.String("error", findErr.Error()))
			return nil, findErr
		}
		s.metrics.RecordReplay("race")
		resp = stored.Response()
	case event.Type.IsAuthorization():
		logger.Error("Network event processing failed, declining", slog.String("error", err.Error()))
		resp = s.recordProcessingError(ctx, event, card)
	default:
		// Settlements and reversals already happened at the network and cannot
		// be declined. Nothing is stored, so the redelivery is decided afresh.
		logger.Error("Network event processing failed, awaiting redelivery", slog.String("error", err.Error()))
		return nil, apperrors.NewAppError(http.StatusServiceUnavailable, "network event could not be recorded, redeliver", err)
	}

	s.metrics.Record(string(event.Type), resp.Approved, reasonStrings(resp.DeclineReasons), time.Since(started))
	s.remember(ctx, event, resp)
	logger.Info("Network event decided",
		slog.Bool("approved", resp.Approved),
		slog.String("approved_amount", resp.ApprovedAmount.String()),
		slog.Any("decline_reasons", resp.DeclineReasons))
	return &resp, nil
}

func (s *authorizationService) validateEvent(event domain.NetworkEvent) error {
	switch {
	case strings.TrimSpace(event.ExternalRef) == "":
		return fmt.Errorf("%w: externalRef is required", apperrors.ErrValidation)
	case strings.TrimSpace(event.CardRef) == "":
		return fmt.Errorf("%w: cardRef is required", apperrors.ErrValidation)
	case event.Amount.Currency == "":
		return fmt.Errorf("%w: amount currency is required", apperrors.ErrValidation)
	}
	if _, ok := s.handlers[event.Type]; !ok {
		return fmt.Errorf("%w: unknown network message type %q", apperrors.ErrValidation, event.Type)
	}
	return nil
}

// storedOutcome looks for a previous decision, first in the cache and then
// in the network message store.
func (s *authorizationService) storedOutcome(ctx context.Context, event domain.NetworkEvent) (*domain.AuthorizationResponse, bool) {
	key := outcomeKey(event)
	if s.cache != nil {
		resp, err := s.cache.GetOutcome(ctx, key)
		if err == nil {
			s.metrics.RecordReplay("cache")
			return resp, true
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.GetLogger(ctx).Warn("Outcome cache lookup failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}

	stored, err := s.repos.NetworkMessages.FindNetworkMessage(ctx, event.CardRef, event.ExternalRef, event.Type)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.GetLogger(ctx).Warn("Network message lookup failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, false
	}
	s.metrics.RecordReplay("store")
	resp := stored.Response()
	s.remember(ctx, event, resp)
	return &resp, true
}

func (s *authorizationService) remember(ctx context.Context, event domain.NetworkEvent, resp domain.AuthorizationResponse) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetOutcome(context.WithoutCancel(ctx), outcomeKey(event), resp); err != nil {
		s.GetLogger(ctx).Warn("Failed to cache network outcome", slog.String("error", err.Error()))
	}
}

// recordProcessingError declines an authorization request and stores the
// decline so that a redelivery gets the same answer. If storing fails the
// decline is still returned.
func (s *authorizationService) recordProcessingError(ctx context.Context, event domain.NetworkEvent, card *domain.Card) domain.AuthorizationResponse {
	c := domain.NewNetworkCommon(event)
	c.Card = card
	c.Decline(domain.DeclineProcessingError)
	resp := c.Response()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	err := s.repos.TxManager.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.NetworkMessages.SaveNetworkMessage(ctx, *domain.NewNetworkMessage(c, s.now()))
	})
	if errors.Is(err, apperrors.ErrDuplicate) {
		if stored, findErr := s.repos.NetworkMessages.FindNetworkMessage(ctx, event.CardRef, event.ExternalRef, event.Type); findErr == nil {
			return stored.Response()
		}
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to record processing error decline", slog.String("external_ref", event.ExternalRef))
	}
	return resp
}

func (s *authorizationService) isForeign(m domain.Merchant) bool {
	return m.Country != "" && !strings.EqualFold(m.Country, s.homeCountry)
}

func reasonStrings(reasons []domain.DeclineReason) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = string(r)
	}
	return out
}
