package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/washroom-dashboard/pkg/cache"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	cacheWriteTimeout  = 5 * time.Second
	sharedFetchTimeout = 10 * time.Second

	// Expiry is spread by a tenth of the TTL either way, capped here.
	maxTTLJitter = 15 * time.Second
)

// jitterTTL returns ttl moved by a random amount within ±min(ttl/10,
// maxTTLJitter), so keys written together do not expire together. Short
// TTLs get a proportionally small spread rather than none.
func jitterTTL(ttl time.Duration) time.Duration {
	spread := min(ttl/10, maxTTLJitter)
	if spread <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int64N(int64(2*spread)+1)) - spread
}

// FindAndCache reads key from c and, on a miss, runs fn once per key no
// matter how many callers are waiting. Only immutable results belong here;
// a hit is returned without a refresh.
//
// The shared fetch runs detached from any one caller: it keeps the caller's
// values but not its cancellation, and is bounded by sharedFetchTimeout. Each
// caller still stops waiting when its own ctx ends.
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

	var cached T
	switch err := c.Get(ctx, key, &cached); {
	case err == nil:
		logger.Debug("cache hit", zap.String("key", key))
		return cached, nil
	case errors.Is(err, cache.ErrMiss):
		logger.Debug("cache miss", zap.String("key", key))
	default:
		logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	detached := context.WithoutCancel(ctx)
	flight := sf.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(detached, sharedFetchTimeout)
		defer cancel()

		v, err := fn(fetchCtx)
		if err != nil {
			return nil, err
		}
		go store(c, key, v, ttl, logger)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return zero, res.Err
		}
		value, ok := res.Val.(T)
		if !ok {
			logger.Error("singleflight type mismatch", zap.String("key", key))
			return zero, fmt.Errorf("type mismatch for key %q", key)
		}
		if res.Shared {
			logger.Debug("singleflight shared result", zap.String("key", key))
		}
		return value, nil
	}
}

func store(c Cacher, key string, v any, ttl time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
	defer cancel()

	expiry := jitterTTL(ttl)
	if err := c.Set(ctx, key, v, expiry); err != nil {
		logger.Warn("failed to set cache on miss", zap.String("key", key), zap.Error(err))
		return
	}
	logger.Debug("cache populated on miss", zap.String("key", key), zap.Duration("ttl", expiry))
}
