// Package cache provides a small JSON read-through cache used in front of
// the statistics queries. The dashboard polls the same handful of period
// reports every few seconds, so even a short TTL absorbs most of the load.
//
// The backing store is Redis; deployments without one get the no-op
// implementation and every read goes straight to Postgres.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encoded report values under string keys.
type Cache interface {
	// GetJSON decodes the value under key into dest, reporting whether the
	// key was present.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)

	// SetJSON stores v under key for ttl.
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// Redis is the redis-backed Cache.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to the Redis instance at addr and verifies the
// connection before returning.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("cache.NewRedis: ping %s: %w", addr, err)
	}
	return &Redis{client: client}, nil
}

// GetJSON implements Cache.
func (c *Redis) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache.Redis.GetJSON: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache.Redis.GetJSON: decode %q: %w", key, err)
	}
	return true, nil
}

// SetJSON implements Cache.
func (c *Redis) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache.Redis.SetJSON: encode %q: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache.Redis.SetJSON: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *Redis) Close() error {
	return c.client.Close()
}

// Noop is the Cache used when no Redis address is configured. Every read
// misses and every write is discarded.
type Noop struct{}

// GetJSON always reports a miss.
func (Noop) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

// SetJSON discards the value.
func (Noop) SetJSON(context.Context, string, any, time.Duration) error { return nil }
