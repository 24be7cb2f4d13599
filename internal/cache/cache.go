package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is the two-level cache interface the pipeline depends on.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, value T)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context) int
}

// Options configures a TTLCache.
type Options struct {
	TTL time.Duration
	// MaxEntries bounds the cache; zero means unbounded. When a new key
	// would exceed the bound, the oldest inserted entry is evicted.
	MaxEntries int
	// Now is the clock used for expiry. Defaults to time.Now.
	Now func() time.Time
}

type entry[T any] struct {
	data      T
	timestamp time.Time
}

// TTLCache is an in-memory map with per-entry expiry and FIFO bounding.
// Expired entries are removed lazily on Get. Safe for concurrent use.
type TTLCache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	order   []string
	ttl     time.Duration
	max     int
	now     func() time.Time
}

// NewTTLCache creates a cache with the given options.
func NewTTLCache[T any](opts Options) *TTLCache[T] {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &TTLCache[T]{
		entries: make(map[string]entry[T]),
		ttl:     opts.TTL,
		max:     opts.MaxEntries,
		now:     now,
	}
}

// Get returns the value for key if present and younger than the TTL.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().Sub(e.timestamp) >= c.ttl {
		c.removeLocked(key)
		return zero, false
	}
	return e.data, true
}

// Set stores value under key. Re-setting an existing key refreshes its
// value and timestamp but keeps its insertion position.
func (c *TTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry[T]{data: value, timestamp: c.now()}
		return
	}

	if c.max > 0 && len(c.entries) >= c.max && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = entry[T]{data: value, timestamp: c.now()}
	c.order = append(c.order, key)
}

// Delete removes key if present.
func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// Clear removes every entry and returns how many were held.
func (c *TTLCache[T]) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]entry[T])
	c.order = nil
	return n
}

// Len returns the number of stored entries, including expired ones not
// yet evicted.
func (c *TTLCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TTLCache[T]) removeLocked(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
