// Package redis is the Redis cache backend. Keys are namespaced with a prefix
// so Stats and Clear only touch this service's entries.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/base-angewandte/baseauth/pkg/models"
)

// Options configures the Redis connection.
type Options struct {
	Addr   string
	DB     int
	Prefix string
}

// Cache stores entries in Redis with native TTLs.
type Cache struct {
	rdb    *goredis.Client
	prefix string
	hits   atomic.Int64
	misses atomic.Int64
}

// New connects to Redis and verifies the connection.
func New(opts Options) (*Cache, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis: missing address")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Cache{rdb: rdb, prefix: opts.Prefix}, nil
}

func (c *Cache) key(k string) string { return c.prefix + k }

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		c.misses.Add(1)
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	c.hits.Add(1)
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// scan walks every key under the prefix.
func (c *Cache) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, c.prefix+"*", 500).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *Cache) Stats(ctx context.Context) (models.CacheStats, error) {
	var count int64
	err := c.scan(ctx, func(keys []string) error {
		count += int64(len(keys))
		return nil
	})
	if err != nil {
		return models.CacheStats{}, err
	}
	return models.CacheStats{
		Backend: "redis",
		Entries: count,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Clear deletes all prefixed keys. Redis expires entries on its own, so an
// expired-only clear has nothing to do.
func (c *Cache) Clear(ctx context.Context, expiredOnly bool) error {
	if expiredOnly {
		return nil
	}
	return c.scan(ctx, func(keys []string) error {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		return nil
	})
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
