package cache

import (
	"context"
	"encoding/json"
	"time"

	goCache "github.com/patrickmn/go-cache"
)

const (
	DefaultExpiration      = 30 * time.Minute
	DefaultCleanupInterval = 1 * time.Hour
)

// InMemoryCache keeps encoded values in github.com/patrickmn/go-cache so callers
// always receive a copy
type InMemoryCache struct {
	cache *goCache.Cache
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: goCache.New(DefaultExpiration, DefaultCleanupInterval),
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.cache.Get(key)
	if !ok {
		return false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if expiration == 0 {
		expiration = goCache.DefaultExpiration
	}
	c.cache.Set(key, data, expiration)
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

// Flush removes all items from the cache
func (c *InMemoryCache) Flush() {
	c.cache.Flush()
}
