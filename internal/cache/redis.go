package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses redisURL and returns a traced client. An empty URL
// returns nil, which every RedisStore treats as "L2 disabled".
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		slog.Warn("Redis tracing instrumentation failed", "error", err)
	}
	return client, nil
}

// RedisStore is a JSON-encoded Redis cache for values of type T.
// Failures are logged and reported as misses.
type RedisStore[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store under prefix. client may be nil.
func NewRedisStore[T any](client *redis.Client, prefix string, ttl time.Duration) *RedisStore[T] {
	return &RedisStore[T]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Enabled reports whether a Redis client is configured.
func (s *RedisStore[T]) Enabled() bool {
	return s != nil && s.client != nil
}

// makeKey hashes the logical key so URLs and free text are safe as Redis keys.
func (s *RedisStore[T]) makeKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%s%x", s.prefix, hash)
}

// Get retrieves a cached value by key.
func (s *RedisStore[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	if !s.Enabled() {
		return zero, false
	}

	data, err := s.client.Get(ctx, s.makeKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false
	}
	if err != nil {
		slog.Warn("Redis cache get failed", "prefix", s.prefix, "error", err)
		return zero, false
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		slog.Warn("Failed to unmarshal cached value", "prefix", s.prefix, "error", err)
		return zero, false
	}
	return value, true
}

// Set stores value with the store TTL.
func (s *RedisStore[T]) Set(ctx context.Context, key string, value T) error {
	if !s.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.makeKey(key), data, s.ttl).Err(); err != nil {
		slog.Warn("Redis cache set failed", "prefix", s.prefix, "error", err)
	}
	return nil
}

// Delete removes key from the store.
func (s *RedisStore[T]) Delete(ctx context.Context, key string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.client.Del(ctx, s.makeKey(key)).Err(); err != nil {
		slog.Warn("Redis cache delete failed", "prefix", s.prefix, "error", err)
	}
	return nil
}

// Clear deletes every key under the store prefix and returns the count.
func (s *RedisStore[T]) Clear(ctx context.Context) int {
	if !s.Enabled() {
		return 0
	}

	removed := 0
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Warn("Redis cache delete failed", "prefix", s.prefix, "error", err)
			continue
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		slog.Warn("Redis cache scan failed", "prefix", s.prefix, "error", err)
	}
	return removed
}
