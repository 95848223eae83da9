// internal/cache/redis.go
package cache

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache is the production VerdictCache over a single redis instance.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache connects to redis at addr, retrying the initial ping with
// exponential backoff so the service survives redis starting a moment
// later.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = 200 * time.Millisecond
	backoffPolicy.MaxInterval = 5 * time.Second

	notify := func(err error, duration time.Duration) {
		logger.Info("Retrying redis connection", zap.Error(err), zap.Duration("backoff", duration))
	}

	operation := func() (string, error) {
		return client.Ping(ctx).Result()
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(5),
		backoff.WithNotify(notify))
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{client: client, ttl: ttl, logger: logger}, nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

// Close releases the underlying connection pool.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
