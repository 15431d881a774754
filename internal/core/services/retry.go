package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/card_ledger_app/internal/middleware"
	"github.com/SscSPs/card_ledger_app/internal/platform/metrics"
	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxRetries bounds how often a conflicting unit of work is replayed.
const DefaultMaxRetries uint64 = 3

// RetryPolicy configures the exponential backoff applied to units of work
// that fail with apperrors.ErrConcurrencyConflict.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      DefaultMaxRetries,
		InitialInterval: 25 * time.Millisecond,
		MaxInterval:     250 * time.Millisecond,
		MaxElapsedTime:  2 * time.Second,
	}
}

// txRunner replays a unit of work while it keeps losing races. Every other
// error stops the retry immediately.
type txRunner struct {
	tm      portsrepo.TransactionManager
	policy  RetryPolicy
	metrics *metrics.LedgerMetrics
}

func newTxRunner(tm portsrepo.TransactionManager, policy RetryPolicy, m *metrics.LedgerMetrics) *txRunner {
	if policy.MaxRetries == 0 {
		policy.MaxRetries = DefaultMaxRetries
	}
	return &txRunner{tm: tm, policy: policy, metrics: m}
}

func (r *txRunner) newBackOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if r.policy.InitialInterval > 0 {
		eb.InitialInterval = r.policy.InitialInterval
	}
	if r.policy.MaxInterval > 0 {
		eb.MaxInterval = r.policy.MaxInterval
	}
	if r.policy.MaxElapsedTime > 0 {
		eb.MaxElapsedTime = r.policy.MaxElapsedTime
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, r.policy.MaxRetries), ctx)
}

// run executes fn in a unit of work, retrying on concurrency conflicts.
func (r *txRunner) run(ctx context.Context, operation string, fn portsrepo.TxFunc) error {
	attempt := 0
	op := func() error {
		attempt++
		err := r.tm.RunInTx(ctx, fn)
		if err == nil {
			return nil
		}
		if errors.Is(err, apperrors.ErrConcurrencyConflict) {
			r.metrics.RecordRetry(operation)
			middleware.GetLoggerFromCtx(ctx).Warn("Unit of work lost a race, retrying",
				slog.String("operation", operation),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return err
		}
		return backoff.Permanent(err)
	}

	err := backoff.Retry(op, r.newBackOff(ctx))
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Err
	}
	return err
}
