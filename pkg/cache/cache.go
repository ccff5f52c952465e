// Package cache defines the key/value store used to memoize vocabulary
// lookups, plus a JSON-typed wrapper shared by the lookup components.
package cache

import (
	"context"
	"crypto/md5" //nolint:gosec // key derivation only
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/base-angewandte/baseauth/pkg/logging"
	"github.com/base-angewandte/baseauth/pkg/models"
)

// DefaultTTL is how long vocabulary data stays cached.
const DefaultTTL = 24 * time.Hour

// Store is a key/value store with per-entry TTL. Implementations must provide
// atomic single-key Get and Set.
type Store interface {
	// Get returns the value for key; ok is false on a miss or expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Stats reports entry count and hit/miss counters.
	Stats(ctx context.Context) (models.CacheStats, error)
	// Clear removes entries; with expiredOnly only expired ones.
	Clear(ctx context.Context, expiredOnly bool) error
	// Close releases resources.
	Close() error
}

// Memo stores JSON values in a Store. Backend errors are logged and degrade
// to misses: a cache entry is a memoization, never a source of truth.
type Memo struct {
	store Store
	ttl   time.Duration
	log   *logging.Logger
}

// NewMemo wraps store. A non-positive ttl means DefaultTTL.
func NewMemo(store Store, ttl time.Duration, log *logging.Logger) *Memo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memo{store: store, ttl: ttl, log: logging.Default(log).With("component", "cache")}
}

// Get decodes the value stored under key into out and reports whether it was found.
func (m *Memo) Get(ctx context.Context, key string, out any) bool {
	if m == nil || m.store == nil {
		return false
	}
	data, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.log.Warn("cache get failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		m.log.Warn("cache entry undecodable", "key", key, "error", err)
		return false
	}
	return true
}

// Set encodes v as JSON and stores it under key.
func (m *Memo) Set(ctx context.Context, key string, v any) {
	if m == nil || m.store == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		m.log.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := m.store.Set(ctx, key, data, m.ttl); err != nil {
		m.log.Warn("cache set failed", "key", key, "error", err)
	}
}

// HashKey derives a stable key from parts joined with "-".
func HashKey(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "-"))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
