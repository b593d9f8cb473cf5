package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	refreshTimeout = 15 * time.Second
	storeTimeout   = 5 * time.Second

	// An entry older than ttl*refreshNum/refreshDen is served and refreshed in the background.
	refreshNum = 4
	refreshDen = 5
)

// Entry is the envelope written under every key.
type Entry[T any] struct {
	Value    T         `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}

// Key builds a bounded cache key from a prefix and arbitrary request parts.
func Key(prefix string, parts ...string) string {
	return fmt.Sprintf("%s:%016x", prefix, xxhash.Sum64String(strings.Join(parts, "\x00")))
}

// addTTLJitter spreads expirations by up to ±10% of ttl.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	spread := int64(ttl / 5)
	if spread == 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int64N(spread+1)-spread/2)
}

func needsRefresh(storedAt time.Time, ttl time.Duration, now time.Time) bool {
	return now.Sub(storedAt) >= ttl*refreshNum/refreshDen
}

func store[T any](c Cacher, key string, ttl time.Duration, value T, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	expiry := addTTLJitter(ttl)
	if err := c.Set(ctx, key, Entry[T]{Value: value, StoredAt: time.Now()}, expiry); err != nil {
		logger.Warn("cache store failed", zap.String("key", key), zap.Error(err))
		return
	}
	logger.Debug("cache stored", zap.String("key", key), zap.Duration("ttl", expiry))
}

// refreshAhead recomputes key off the request path. Concurrent refreshes of one key collapse.
func refreshAhead[T any](c Cacher, sf *singleflight.Group, key string, ttl time.Duration, logger *zap.Logger, fn FetchFunc[T]) {
	go func() {
		_, _, _ = sf.Do(key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			defer cancel()

			value, err := fn(ctx)
			if err != nil {
				logger.Warn("background refresh failed", zap.String("key", key), zap.Error(err))
				return nil, err
			}
			store(c, key, ttl, value, logger)
			return nil, nil
		})
	}()
}

// FindAndCache serves key from c, computing it with fn on a miss. Concurrent misses for one
// key share a single fn call, and entries near the end of their ttl are refreshed in the
// background while the cached value is returned. A nil Cacher disables caching but keeps
// request coalescing.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = Nop{}
	}

	var cached Entry[T]
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		if needsRefresh(cached.StoredAt, ttl, time.Now()) {
			logger.Debug("cache hit, refreshing ahead", zap.String("key", key))
			refreshAhead(c, sf, key, ttl, logger, fn)
		} else {
			logger.Debug("cache hit", zap.String("key", key))
		}
		return cached.Value, nil

	case errors.Is(err, redis.Nil):
		logger.Debug("cache miss", zap.String("key", key))

	default:
		logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := sf.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			logger.Error("fetch failed", zap.String("key", key), zap.Error(err))
			return nil, err
		}
		go store(c, key, ttl, value, logger)
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		logger.Error("singleflight type mismatch", zap.String("key", key))
		return zero, fmt.Errorf("type mismatch for key %q", key)
	}
	if shared {
		logger.Debug("singleflight shared result", zap.String("key", key))
	}
	return value, nil
}
