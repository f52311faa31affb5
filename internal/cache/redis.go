package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
	"github.com/shopbridge/mollie-gateway/internal/logger"
)

// RedisCache shares cached values between instances of the service
type RedisCache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewRedisCache(redisURL string, log *logger.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid redis URL").
			Mark(ierr.ErrValidation)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not connect to redis").
			Mark(ierr.ErrSystem)
	}

	log.Infow("redis connection established", "addr", opt.Addr)
	return &RedisCache{client: client, logger: log}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (found bool, err error) {
	done := traceCall(ctx, "redis", "get", key)
	defer func() { done(err) }()

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		c.logger.Warnw("redis get failed", "key", key, "error", err)
		return false, err
	}
	if err = json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) (err error) {
	done := traceCall(ctx, "redis", "set", key)
	defer func() { done(err) }()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err = c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		c.logger.Warnw("redis set failed", "key", key, "error", err)
	}
	return err
}

func (c *RedisCache) Delete(ctx context.Context, key string) (err error) {
	done := traceCall(ctx, "redis", "delete", key)
	defer func() { done(err) }()

	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
