// Package cache provides the expiring key-value store used to avoid refetching
// external data within a collection window.
package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTTL is how long fetched source data stays fresh.
const DefaultTTL = time.Hour

// KeyPrefix namespaces every key written by this process.
const KeyPrefix = "divescout:cache:"

// Cache stores JSON-encodable values with a time-based expiry. A miss is
// reported as (false, nil); errors are backend failures.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Close() error
}

// Config selects and tunes the backend.
type Config struct {
	Backend       string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DisableOnError turns a Redis cache off after its first backend error.
	DisableOnError bool
}

// New builds the configured backend. An unreachable Redis falls back to an
// in-memory cache so a missing Redis never blocks startup.
func New(cfg Config, logger zerolog.Logger) Cache {
	if cfg.Backend != "redis" {
		return NewMemory()
	}
	r := NewRedis(cfg, logger)
	if !r.IsAvailable() {
		logger.Warn().Str("addr", cfg.RedisAddr).Msg("redis cache unavailable, falling back to memory")
		_ = r.Close()
		return NewMemory()
	}
	return r
}
