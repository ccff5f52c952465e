package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/base-angewandte/baseauth/pkg/models"
)

// Cache is a key/value TTL cache backed by SQLite.
type Cache struct {
	db     *sql.DB
	now    func() time.Time
	hits   atomic.Int64
	misses atomic.Int64
}

// created_at holds unix seconds; an entry is live while
// created_at + ttl_seconds is after the current time.
const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	ttl_seconds INTEGER NOT NULL
);
`

// New opens (or creates) a cache database at dbPath.
func New(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Get retrieves a cached value. ok is false if not found or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE key = ? AND created_at + ttl_seconds > ?`,
		key, c.now().Unix(),
	).Scan(&value)

	if err == sql.ErrNoRows {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		c.misses.Add(1)
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	c.hits.Add(1)
	return value, true, nil
}

// Set stores a value in the cache.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (key, value, created_at, ttl_seconds)
		 VALUES (?, ?, ?, ?)`,
		key, value, c.now().Unix(), int64(ttl.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Stats returns cache performance metrics.
func (c *Cache) Stats(ctx context.Context) (models.CacheStats, error) {
	var count int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`).Scan(&count)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return models.CacheStats{
		Backend: "sqlite",
		Entries: count,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Clear removes cache entries. If expiredOnly is true, only expired entries are removed.
func (c *Cache) Clear(ctx context.Context, expiredOnly bool) error {
	var err error
	if expiredOnly {
		_, err = c.db.ExecContext(ctx,
			`DELETE FROM cache_entries WHERE created_at + ttl_seconds <= ?`, c.now().Unix())
	} else {
		_, err = c.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	}
	if err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
