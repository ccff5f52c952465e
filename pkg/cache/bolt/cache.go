// Package bolt is an embedded cache backend on bbolt. Each value is stored
// with an 8-byte big-endian expiry prefix; expired entries are dropped lazily
// on read or by Clear.
package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/base-angewandte/baseauth/pkg/models"
)

var bucketEntries = []byte("cache_entries")

// Cache implements the cache store on a bbolt file.
type Cache struct {
	db     *bolt.DB
	hits   atomic.Int64
	misses atomic.Int64
}

// New opens (or creates) a bbolt database at path.
func New(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEntries)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init bucket: %w", err)
	}
	return &Cache{db: db}, nil
}

func encode(value []byte, expiresAt time.Time) []byte {
	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf, uint64(expiresAt.UnixNano()))
	copy(buf[8:], value)
	return buf
}

func expired(raw []byte, now time.Time) bool {
	if len(raw) < 8 {
		return true
	}
	return now.UnixNano() >= int64(binary.BigEndian.Uint64(raw[:8]))
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketEntries).Get([]byte(key))
		if raw == nil || expired(raw, time.Now()) {
			return nil
		}
		// bbolt memory is only valid inside the transaction.
		value = append([]byte(nil), raw[8:]...)
		return nil
	})
	if err != nil {
		c.misses.Add(1)
		return nil, false, fmt.Errorf("bbolt get: %w", err)
	}
	if value == nil {
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return value, true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Put([]byte(key), encode(value, time.Now().Add(ttl)))
	})
	if err != nil {
		return fmt.Errorf("bbolt put: %w", err)
	}
	return nil
}

func (c *Cache) Stats(_ context.Context) (models.CacheStats, error) {
	var n int
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketEntries).Stats().KeyN
		return nil
	})
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("bbolt stats: %w", err)
	}
	return models.CacheStats{
		Backend: "bolt",
		Entries: int64(n),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

func (c *Cache) Clear(_ context.Context, expiredOnly bool) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if !expiredOnly {
			if err := tx.DeleteBucket(bucketEntries); err != nil {
				return fmt.Errorf("bbolt clear: %w", err)
			}
			_, err := tx.CreateBucket(bucketEntries)
			return err
		}
		b := tx.Bucket(bucketEntries)
		now := time.Now()
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if expired(v, now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Cache) Close() error {
	return c.db.Close()
}
