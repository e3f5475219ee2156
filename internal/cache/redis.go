package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis is a JSON cache that degrades to a no-op when Redis is not
// configured or unreachable. A nil *Redis is valid and always misses.
type Redis struct {
	client *redis.Client
	logger zerolog.Logger

	warnedUnavailable atomic.Bool
}

// NewRedis connects to the server at url. When url is empty or the
// server does not answer a ping, the returned cache bypasses every call.
func NewRedis(ctx context.Context, url string, logger zerolog.Logger) *Redis {
	logger = logger.With().Str("component", "cache").Logger()
	if url == "" {
		return &Redis{logger: logger}
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid REDIS_URL, bypassing cache")
		return &Redis{logger: logger}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, bypassing cache")
		_ = client.Close()
		return &Redis{logger: logger}
	}

	logger.Info().Str("addr", opts.Addr).Msg("redis cache connected")
	return &Redis{client: client, logger: logger}
}

// Enabled reports whether calls reach a live Redis server.
func (r *Redis) Enabled() bool {
	return r != nil && r.client != nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn().Err(err).Msg("redis unavailable, bypassing cache")
	}
}

// GetJSON decodes the value at key into out. It reports false on a miss.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value at key for ttl. A non-positive ttl skips the write.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Enabled() || ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}
