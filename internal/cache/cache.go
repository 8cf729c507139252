// Package cache provides the Redis cache-aside client.
//
// The cache is never a correctness dependency: every failure mode degrades to
// a miss on reads and a no-op on writes, so callers always fall back to the
// database. Errors are logged at debug level and swallowed.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"nbaroster/backend/internal/metrics"
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client wraps a Redis connection with the degrade-silently contract.
// Construct once at startup and inject; there is no global handle.
type Client struct {
	rdb *redis.Client
}

// New creates a cache client. Connection problems are not fatal here: each
// operation degrades on its own, so a Redis that comes up later just starts
// working.
func New(cfg Config) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	return &Client{rdb: rdb}
}

// Ping reports cache reachability, for health endpoints only.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Get returns the cached JSON payload for key, or nil on a miss, a cache
// failure, or a malformed stored payload. Callers cannot tell these apart
// and must treat nil as "go to the database".
func (c *Client) Get(ctx context.Context, key string) []byte {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Str("key", key).Msg("Cache get failed")
		}
		metrics.RecordCacheMiss()
		return nil
	}
	if !json.Valid(raw) {
		log.Debug().Str("key", key).Msg("Cache entry is not valid JSON, treating as miss")
		metrics.RecordCacheMiss()
		return nil
	}
	metrics.RecordCacheHit()
	return raw
}

// Set stores a JSON payload with a TTL. Best effort: returns false on any
// failure and never propagates the error.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("Cache set failed")
		return false
	}
	return true
}

// InvalidatePrefix removes every key starting with prefix and returns the
// number removed. Uses SCAN so it never blocks the Redis keyspace; returns 0
// if the cache is unavailable.
func (c *Client) InvalidatePrefix(ctx context.Context, prefix string) int {
	count := 0
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Debug().Err(err).Str("key", iter.Val()).Msg("Cache delete failed")
			continue
		}
		count++
	}
	if err := iter.Err(); err != nil {
		log.Debug().Err(err).Str("prefix", prefix).Msg("Cache scan failed")
	}
	if count > 0 {
		metrics.CacheInvalidationsTotal.Add(float64(count))
	}
	return count
}
