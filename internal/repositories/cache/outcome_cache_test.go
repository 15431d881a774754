package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	"github.com/SscSPs/card_ledger_app/internal/repositories/cache"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration) (*cache.RedisOutcomeCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisOutcomeCache(client, ttl), srv
}

func TestRedisOutcomeCache_RoundTrip(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()
	allocation := "alloc-1"
	resp := domain.AuthorizationResponse{
		Approved:       false,
		ApprovedAmount: domain.ZeroAmount("USD"),
		BusinessID:     "biz-1",
		AllocationID:   &allocation,
		CardID:         "card-1",
		AccountID:      "acc-1",
		DeclineReasons: []domain.DeclineReason{domain.DeclineInsufficientFunds, domain.DeclineLimitExceeded},
	}

	require.NoError(t, c.SetOutcome(ctx, "ic_1:ext_1:AUTH_REQUEST", resp))
	got, err := c.GetOutcome(ctx, "ic_1:ext_1:AUTH_REQUEST")
	require.NoError(t, err)
	assert.Equal(t, resp.DeclineReasons, got.DeclineReasons)
	assert.Equal(t, "alloc-1", *got.AllocationID)
	assert.True(t, got.ApprovedAmount.Value.Equal(decimal.Zero))
	assert.Equal(t, domain.Currency("USD"), got.ApprovedAmount.Currency)
}

func TestRedisOutcomeCache_MissAndExpiry(t *testing.T) {
	c, srv := newCache(t, time.Minute)
	ctx := context.Background()

	_, err := c.GetOutcome(ctx, "unknown")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, c.SetOutcome(ctx, "k", domain.AuthorizationResponse{Approved: true}))
	srv.FastForward(2 * time.Minute)
	_, err = c.GetOutcome(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisOutcomeCache_ServerDown(t *testing.T) {
	c, srv := newCache(t, time.Minute)
	srv.Close()
	_, err := c.GetOutcome(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}
