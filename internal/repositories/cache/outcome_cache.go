package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/card_ledger_app/internal/apperrors"
	"github.com/SscSPs/card_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/card_ledger_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "card-ledger:outcome:"
	DefaultTTL = 24 * time.Hour
)

// RedisOutcomeCache stores network responses as JSON with a TTL. The stored
// network message stays the source of truth; the cache only shortcuts
// redeliveries.
type RedisOutcomeCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ portsrepo.OutcomeCache = (*RedisOutcomeCache)(nil)

func NewRedisOutcomeCache(client redis.UniversalClient, ttl time.Duration) *RedisOutcomeCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisOutcomeCache{client: client, ttl: ttl}
}

func (c *RedisOutcomeCache) GetOutcome(ctx context.Context, key string) (*domain.AuthorizationResponse, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: outcome %s", apperrors.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read outcome %s: %w", key, err)
	}
	var resp domain.AuthorizationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode outcome %s: %w", key, err)
	}
	return &resp, nil
}

func (c *RedisOutcomeCache) SetOutcome(ctx context.Context, key string, resp domain.AuthorizationResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode outcome %s: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write outcome %s: %w", key, err)
	}
	return nil
}
