package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache"
)

// MetaStore handles all metadata-related cache operations with "meta:" prefix
// Metadata includes bookkeeping such as which seed files were already applied
type MetaStore struct {
	cache cache.Cache
}

// newMetaStore creates a new MetaStore instance
func newMetaStore(c cache.Cache) *MetaStore {
	return &MetaStore{
		cache: c,
	}
}

const metaPrefix = "meta:"

// metaKey returns the prefixed cache key for metadata
func (s *MetaStore) metaKey(key string) string {
	return metaPrefix + key
}

// Get retrieves a generic metadata value by key
func (s *MetaStore) Get(ctx context.Context, key string) (string, error) {
	metaKey := s.metaKey(key)
	val, err := s.cache.Get(ctx, metaKey)
	if err != nil {
		return "", fmt.Errorf("failed to get meta key %s: %w", key, err)
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("unexpected type %T for meta key %s", val, key)
	}

	return str, nil
}

// Set stores a generic metadata value by key
func (s *MetaStore) Set(ctx context.Context, key, value string) error {
	metaKey := s.metaKey(key)
	if err := s.cache.Set(ctx, metaKey, value, cache.NoExpiration); err != nil {
		return fmt.Errorf("failed to set meta key %s: %w", key, err)
	}

	return nil
}

// Delete removes a metadata entry
func (s *MetaStore) Delete(ctx context.Context, key string) error {
	metaKey := s.metaKey(key)
	return s.cache.Delete(ctx, metaKey)
}

// Keys lists metadata keys matching pattern ("seed:*"), without the meta: prefix, sorted
func (s *MetaStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	entries, err := s.cache.GetByPattern(ctx, s.metaKey(pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list meta keys %s: %w", pattern, err)
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, strings.TrimPrefix(key, metaPrefix))
	}
	sort.Strings(keys)
	return keys, nil
}
