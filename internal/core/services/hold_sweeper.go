package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	portssvc "github.com/SscSPs/card_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/card_ledger_app/internal/middleware"
	"github.com/go-redsync/redsync/v4"
)

const sweepLockName = "card-ledger:hold-sweeper"

// HoldSweeperConfig configures the background expiry of stale holds.
type HoldSweeperConfig struct {
	Interval  time.Duration
	BatchSize int
	// Locker, when set, makes sure only one replica sweeps per tick.
	Locker *redsync.Redsync
	Now    Clock
}

// HoldSweeper periodically moves PLACED holds past their expiration to EXPIRED.
type HoldSweeper struct {
	accounts portssvc.AccountWriterSvc
	cfg      HoldSweeperConfig
	logger   *slog.Logger
}

func NewHoldSweeper(accounts portssvc.AccountWriterSvc, cfg HoldSweeperConfig, logger *slog.Logger) *HoldSweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HoldSweeper{accounts: accounts, cfg: cfg, logger: logger}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *HoldSweeper) Run(ctx context.Context) error {
	ctx = middleware.WithLogger(ctx, s.logger.With(slog.String("component", "hold_sweeper")))
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("Hold sweeper started", slog.Duration("interval", s.cfg.Interval), slog.Int("batch_size", s.cfg.BatchSize))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Hold sweeper stopped")
			return nil
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("Hold sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

// SweepOnce expires batches until fewer than a full batch is found. It
// returns 0 without sweeping when another replica holds the lock.
func (s *HoldSweeper) SweepOnce(ctx context.Context) (int, error) {
	if s.cfg.Locker != nil {
		mutex := s.cfg.Locker.NewMutex(sweepLockName,
			redsync.WithExpiry(s.cfg.Interval),
			redsync.WithTries(1))
		if err := mutex.LockContext(ctx); err != nil {
			if errors.Is(err, redsync.ErrFailed) || strings.Contains(err.Error(), "lock already taken") {
				s.logger.Debug("Hold sweep skipped, lock held elsewhere")
				return 0, nil
			}
			return 0, err
		}
		defer func() {
			if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Failed to release hold sweep lock", slog.String("error", err.Error()))
			}
		}()
	}

	total := 0
	for {
		n, err := s.accounts.ExpireHolds(ctx, s.cfg.Now(), s.cfg.BatchSize)
		total += n
		if err != nil {
			return total, err
		}
		if n < s.cfg.BatchSize {
			return total, nil
		}
	}
}
