package cache

import (
	"context"
	"log/slog"

	"github.com/socialchef/yeschef/internal/metrics"
)

// Tiered layers an in-memory TTLCache (L1) over an optional RedisStore (L2).
// L2 hits are copied into L1.
type Tiered[T any] struct {
	name string
	l1   *TTLCache[T]
	l2   *RedisStore[T]
}

// NewTiered builds a tiered cache. l2 may be nil.
func NewTiered[T any](name string, l1 *TTLCache[T], l2 *RedisStore[T]) *Tiered[T] {
	return &Tiered[T]{name: name, l1: l1, l2: l2}
}

// Get tries L1, then L2.
func (c *Tiered[T]) Get(ctx context.Context, key string) (T, bool) {
	if v, ok := c.l1.Get(key); ok {
		slog.Debug("cache: L1 hit", "cache", c.name, "key", key)
		metrics.RecordCacheLookup(ctx, c.name, true)
		return v, true
	}

	if c.l2.Enabled() {
		if v, ok := c.l2.Get(ctx, key); ok {
			slog.Debug("cache: L2 hit", "cache", c.name, "key", key)
			c.l1.Set(key, v)
			metrics.RecordCacheLookup(ctx, c.name, true)
			return v, true
		}
	}

	metrics.RecordCacheLookup(ctx, c.name, false)
	var zero T
	return zero, false
}

// Set stores value in both tiers.
func (c *Tiered[T]) Set(ctx context.Context, key string, value T) {
	c.l1.Set(key, value)
	if c.l2.Enabled() {
		if err := c.l2.Set(ctx, key, value); err != nil {
			slog.Warn("cache: L2 encode failed", "cache", c.name, "error", err)
		}
	}
}

// Delete removes key from both tiers.
func (c *Tiered[T]) Delete(ctx context.Context, key string) {
	c.l1.Delete(key)
	if c.l2.Enabled() {
		c.l2.Delete(ctx, key)
	}
}

// Clear empties both tiers and returns the number of distinct entries
// removed. Every L1 entry is also written to L2, so that is the larger of
// the two tier counts; L2 may additionally hold entries other processes
// wrote.
func (c *Tiered[T]) Clear(ctx context.Context) int {
	n := c.l1.Clear()
	if c.l2.Enabled() {
		removed := c.l2.Clear(ctx)
		slog.Info("cache: L2 cleared", "cache", c.name, "removed", removed, "l1_removed", n)
		n = max(n, removed)
	}
	return n
}

// Len returns the L1 entry count.
func (c *Tiered[T]) Len() int {
	return c.l1.Len()
}
