package cache

import (
	"fmt"

	"github.com/base-angewandte/baseauth/pkg/cache/bolt"
	"github.com/base-angewandte/baseauth/pkg/cache/memory"
	"github.com/base-angewandte/baseauth/pkg/cache/redis"
	"github.com/base-angewandte/baseauth/pkg/cache/sqlite"
	"github.com/base-angewandte/baseauth/pkg/config"
)

// Open creates the backend selected by cfg.Backend.
func Open(cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "", "sqlite":
		return sqlite.New(cfg.Path)
	case "redis":
		return redis.New(redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB, Prefix: cfg.RedisPrefix})
	case "bolt":
		return bolt.New(cfg.Path)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
