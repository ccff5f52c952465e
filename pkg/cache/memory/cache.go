// Package memory is an in-process cache backend for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/base-angewandte/baseauth/pkg/models"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a mutex-guarded map with lazy expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]entry), now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return append([]byte(nil), e.value...), true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = entry{value: append([]byte(nil), value...), expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	c.sets.Add(1)
	return nil
}

func (c *Cache) Stats(_ context.Context) (models.CacheStats, error) {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return models.CacheStats{
		Backend: "memory",
		Entries: int64(n),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

func (c *Cache) Clear(_ context.Context, expiredOnly bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !expiredOnly {
		c.entries = make(map[string]entry)
		return nil
	}
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *Cache) Close() error { return nil }

// Sets reports how many writes the cache has seen.
func (c *Cache) Sets() int64 { return c.sets.Load() }

// Has reports whether key holds a live entry without touching the counters.
func (c *Cache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return ok && c.now().Before(e.expiresAt)
}

// SetClock replaces the time source; used to test expiry.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}
