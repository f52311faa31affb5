package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopbridge/mollie-gateway/internal/config"
	"github.com/shopbridge/mollie-gateway/internal/logger"
)

// Cache stores JSON encoded values under string keys.
// Get reports false without an error on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

const (
	PrefixSession  = "session:v1:"
	PrefixTaxRates = "taxrates:v1:"
	PrefixCurrency = "currency:v1:"
)

// GenerateKey joins the parameters with a colon and appends them to the prefix
func GenerateKey(prefix string, params ...interface{}) string {
	parts := make([]string, len(params)+1)
	parts[0] = strings.TrimSuffix(prefix, ":")

	for i, param := range params {
		parts[i+1] = fmt.Sprintf("%v", param)
	}

	return strings.Join(parts, ":")
}

// NewCache returns the backend selected by session.backend
func NewCache(cfg *config.Configuration, log *logger.Logger) (Cache, error) {
	if cfg.Session.Backend == "redis" {
		log.Infow("initializing redis cache")
		return NewRedisCache(cfg.Redis.URL, log)
	}
	log.Infow("initializing in-memory cache")
	return NewInMemoryCache(), nil
}

// GetOrSet returns the cached value for key, or calls fn and caches its result.
// Cache failures never fail the call.
func GetOrSet[T any](ctx context.Context, c Cache, key string, expiration time.Duration, fn func() (T, error)) (T, error) {
	var result T
	if found, err := c.Get(ctx, key, &result); err == nil && found {
		return result, nil
	}

	result, err := fn()
	if err != nil {
		return result, err
	}

	_ = c.Set(ctx, key, result, expiration)
	return result, nil
}
