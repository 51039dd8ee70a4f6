// Package cache holds the Redis-backed helpers used around sale logging.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "nursery:sale:idem:"

// New creates a Redis client and checks connectivity.
func New(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping: %w", err)
	}

	return client, nil
}

// IdempotencyGuard remembers which idempotency keys already produced a sale.
type IdempotencyGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyGuard builds a guard whose claims expire after ttl.
func NewIdempotencyGuard(client *redis.Client, ttl time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{client: client, ttl: ttl}
}

// Claim binds key to saleID. When the key is already bound it returns the
// existing sale id and false.
func (g *IdempotencyGuard) Claim(ctx context.Context, key, saleID string) (string, bool, error) {
	ok, err := g.client.SetNX(ctx, keyPrefix+key, saleID, g.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("claim idempotency key: %w", err)
	}
	if ok {
		return saleID, true, nil
	}

	existing, err := g.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return g.Claim(ctx, key, saleID)
	}
	if err != nil {
		return "", false, fmt.Errorf("read idempotency key: %w", err)
	}
	return existing, false, nil
}

// Release forgets key so a failed sale can be retried with it.
func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
