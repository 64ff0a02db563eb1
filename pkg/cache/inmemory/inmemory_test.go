package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache/internal/cacheerr"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(&Config{
		DefaultExpiration: 300,
		CleanupInterval:   600,
	})
	require.NoError(t, err)
	return c
}

func TestNewCache_NilConfig(t *testing.T) {
	_, err := NewCache(nil)
	assert.Error(t, err)
}

func TestCache_GetMissingKey(t *testing.T) {
	c := newTestCache(t)

	val, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, cacheerr.ErrKeyNotFound)
	assert.Nil(t, val)
}

func TestCache_SetGetDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "records:users", `[{"name":"a"}]`, -1))

	val, err := c.Get(ctx, "records:users")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"a"}]`, val)

	require.NoError(t, c.Delete(ctx, "records:users"))
	_, err = c.Get(ctx, "records:users")
	assert.ErrorIs(t, err, cacheerr.ErrKeyNotFound)
}

func TestCache_SetWithExpiration(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, cacheerr.ErrKeyNotFound)
}

func TestCache_GetByPattern(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "records:users", "1", -1))
	require.NoError(t, c.Set(ctx, "records:archive", "2", -1))
	require.NoError(t, c.Set(ctx, "meta:version", "3", -1))

	got, err := c.GetByPattern(ctx, "records:*")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"records:users":   "1",
		"records:archive": "2",
	}, got)

	_, err = c.GetByPattern(ctx, "[")
	assert.Error(t, err)
}
