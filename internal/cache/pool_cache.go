// Package cache keeps read-through copies of immutable vesting pools in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/vesting-service/internal/domain"
)

const poolKeyPrefix = "vesting:pool:"

// PoolCache stores pools by company name. Pools never change after creation,
// so entries are only ever written once and expire by TTL.
type PoolCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPoolCache returns a cache; a nil client disables caching.
func NewPoolCache(client *redis.Client, ttl time.Duration) *PoolCache {
	return &PoolCache{client: client, ttl: ttl}
}

// Get returns the cached pool, or (nil, nil) on a miss.
func (c *PoolCache) Get(ctx context.Context, companyName string) (*domain.VestingPool, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, poolKeyPrefix+companyName).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pool domain.VestingPool
	if err := json.Unmarshal(raw, &pool); err != nil {
		return nil, err
	}
	return &pool, nil
}

// Set stores the pool.
func (c *PoolCache) Set(ctx context.Context, pool *domain.VestingPool) error {
	if c == nil || c.client == nil || pool == nil {
		return nil
	}
	raw, err := json.Marshal(pool)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, poolKeyPrefix+pool.CompanyName, raw, c.ttl).Err()
}
