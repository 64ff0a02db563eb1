//go:generate mockgen -source=cache.go -destination=mocks/cache_mock.go -package=mocks

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache/inmemory"
	"github.com/redhat-data-and-ai/addressbook/pkg/cache/internal/cacheerr"
	"github.com/redhat-data-and-ai/addressbook/pkg/cache/redis"
)

const (
	// NoExpiration keeps an entry until it is deleted
	NoExpiration time.Duration = -1

	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// ErrKeyNotFound is returned by Get when the key has never been set or was deleted.
// Both drivers return this exact value so callers can use errors.Is.
var ErrKeyNotFound = cacheerr.ErrKeyNotFound

// Cache is the key-value abstraction the stores are built on.
// Values are stored as strings (JSON documents in practice).
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	// GetByPattern returns all entries whose key matches a glob pattern
	GetByPattern(ctx context.Context, pattern string) (map[string]interface{}, error)
}

type Config struct {
	Driver   string           `mapstructure:"driver"`
	InMemory *inmemory.Config `mapstructure:"inmemory"`
	Redis    *redis.Config    `mapstructure:"redis"`
}

// New returns the cache driver selected by config.Driver
func New(config *Config) (Cache, error) {
	if config == nil {
		return nil, errors.New("cache config is required")
	}

	switch config.Driver {
	case DriverMemory, "":
		if config.InMemory == nil {
			config.InMemory = &inmemory.Config{
				DefaultExpiration: -1,
				CleanupInterval:   -1,
			}
		}
		return inmemory.NewCache(config.InMemory)
	case DriverRedis:
		if config.Redis == nil {
			return nil, errors.New("redis cache config is required for redis driver")
		}
		return redis.NewCache(config.Redis)
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", config.Driver)
	}
}

// Close releases driver resources such as the redis connection pool.
// Drivers holding nothing to release are a no-op.
func Close(c Cache) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
