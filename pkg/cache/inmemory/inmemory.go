package inmemory

import (
	"context"
	"fmt"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache/internal/cacheerr"
)

// Config holds the go-cache settings, both values are in seconds.
// A negative DefaultExpiration means entries never expire,
// a non-positive CleanupInterval disables the janitor.
type Config struct {
	DefaultExpiration int32 `mapstructure:"defaultExpiration"`
	CleanupInterval   int32 `mapstructure:"cleanupInterval"`
}

// Cache is a process-local cache backed by patrickmn/go-cache
type Cache struct {
	client *gocache.Cache
}

func NewCache(config *Config) (*Cache, error) {
	if config == nil {
		return nil, fmt.Errorf("inmemory cache config is required")
	}

	defaultExpiration := gocache.NoExpiration
	if config.DefaultExpiration > 0 {
		defaultExpiration = time.Duration(config.DefaultExpiration) * time.Second
	}

	var cleanupInterval time.Duration
	if config.CleanupInterval > 0 {
		cleanupInterval = time.Duration(config.CleanupInterval) * time.Second
	}

	return &Cache{
		client: gocache.New(defaultExpiration, cleanupInterval),
	}, nil
}

func (c *Cache) Get(_ context.Context, key string) (interface{}, error) {
	val, found := c.client.Get(key)
	if !found {
		return nil, cacheerr.ErrKeyNotFound
	}
	return val, nil
}

// Set stores the value. An expiration of 0 applies the configured default,
// a negative expiration keeps the entry forever.
func (c *Cache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	if expiration < 0 {
		expiration = gocache.NoExpiration
	}
	c.client.Set(key, value, expiration)
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.client.Delete(key)
	return nil
}

// GetByPattern matches keys with path.Match glob semantics ("user:*")
func (c *Cache) GetByPattern(_ context.Context, pattern string) (map[string]interface{}, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid key pattern %q: %w", pattern, err)
	}

	result := make(map[string]interface{})
	for key, item := range c.client.Items() {
		if ok, _ := path.Match(pattern, key); ok {
			result[key] = item.Object
		}
	}
	return result, nil
}
