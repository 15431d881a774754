package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/SscSPs/card_ledger_app/internal/core/services"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedsync(t *testing.T) *redsync.Redsync {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redsync.New(goredis.NewPool(client))
}

func TestHoldSweeper_ExpiresInBatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.newCard(t, "100")
	for _, ref := range []string{"auth-1", "auth-2", "auth-3"} {
		_, err := f.svc.Authorization.ProcessNetworkEvent(ctx, debitEvent(card, domain.AuthRequest, ref, "10"))
		require.NoError(t, err)
	}
	f.clock.Advance(6 * 24 * time.Hour)

	sweeper := services.NewHoldSweeper(f.svc.Account, services.HoldSweeperConfig{
		Interval:  time.Minute,
		BatchSize: 2,
		Locker:    newRedsync(t),
		Now:       f.clock.Now,
	}, nil)
	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, f.available(t, card.AccountID).Equal(usd("100")))

	n, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHoldSweeper_SkipsWhenLockHeld(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	card := f.newCard(t, "100")
	_, err := f.svc.Authorization.ProcessNetworkEvent(ctx, debitEvent(card, domain.AuthRequest, "auth-1", "10"))
	require.NoError(t, err)
	f.clock.Advance(6 * 24 * time.Hour)

	rs := newRedsync(t)
	other := rs.NewMutex("card-ledger:hold-sweeper", redsync.WithExpiry(time.Minute))
	require.NoError(t, other.LockContext(ctx))

	sweeper := services.NewHoldSweeper(f.svc.Account, services.HoldSweeperConfig{Locker: rs, Now: f.clock.Now}, nil)
	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = other.UnlockContext(ctx)
	require.NoError(t, err)
	n, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHoldSweeper_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	sweeper := services.NewHoldSweeper(f.svc.Account, services.HoldSweeperConfig{Interval: time.Millisecond, Now: f.clock.Now}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Run(ctx) }()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
