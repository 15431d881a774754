package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/card_ledger_app/internal/middleware"
	"github.com/SscSPs/card_ledger_app/internal/platform/metrics"
)

// Clock returns the current time.
type Clock func() time.Time

type serviceOptions struct {
	now             Clock
	retry           RetryPolicy
	metrics         *metrics.Metrics
	cache           portsrepo.OutcomeCache
	decisionTimeout time.Duration
	homeCountry     string
}

// Option is a functional option shared by the service constructors.
type Option func(*serviceOptions)

// WithClock overrides the time source.
func WithClock(now Clock) Option {
	return func(o *serviceOptions) {
		o.now = now
	}
}

// WithRetryPolicy sets the backoff used for conflicting units of work.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(o *serviceOptions) {
		o.retry = policy
	}
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *serviceOptions) {
		o.metrics = m
	}
}

// WithOutcomeCache puts a cache in front of the stored network outcomes.
func WithOutcomeCache(cache portsrepo.OutcomeCache) Option {
	return func(o *serviceOptions) {
		o.cache = cache
	}
}

// WithDecisionTimeout bounds how long one network event may take.
func WithDecisionTimeout(d time.Duration) Option {
	return func(o *serviceOptions) {
		o.decisionTimeout = d
	}
}

// WithHomeCountry sets the ISO 3166 country that card activity is not
// considered foreign in.
func WithHomeCountry(country string) Option {
	return func(o *serviceOptions) {
		if country != "" {
			o.homeCountry = country
		}
	}
}

func buildOptions(options []Option) serviceOptions {
	o := serviceOptions{
		now:             func() time.Time { return time.Now().UTC() },
		retry:           DefaultRetryPolicy(),
		decisionTimeout: 5 * time.Second,
		homeCountry:     "US",
	}
	for _, option := range options {
		option(&o)
	}
	return o
}

func (o serviceOptions) ledgerMetrics() *metrics.LedgerMetrics {
	if o.metrics == nil {
		return nil
	}
	return o.metrics.Ledger
}

func (o serviceOptions) decisionMetrics() *metrics.DecisionMetrics {
	if o.metrics == nil {
		return nil
	}
	return o.metrics.Decisions
}

// BaseService provides common functionality for all services
type BaseService struct {
	now Clock
	tx  *txRunner
}

func newBaseService(tm portsrepo.TransactionManager, o serviceOptions) BaseService {
	return BaseService{now: o.now, tx: newTxRunner(tm, o.retry, o.ledgerMetrics())}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}
