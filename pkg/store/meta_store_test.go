package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache"
)

func setupMetaStore(t *testing.T) (*MetaStore, cache.Cache) {
	t.Helper()
	c := newTestCache(t)
	return newMetaStore(c), c
}

func TestMetaStore_GetSetDelete(t *testing.T) {
	store, c := setupMetaStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "seed:abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "seed:abc", "applied"))

	// stored under the meta: prefix
	raw, err := c.Get(ctx, "meta:seed:abc")
	require.NoError(t, err)
	assert.Equal(t, "applied", raw)

	val, err := store.Get(ctx, "seed:abc")
	require.NoError(t, err)
	assert.Equal(t, "applied", val)

	require.NoError(t, store.Delete(ctx, "seed:abc"))
	_, err = store.Get(ctx, "seed:abc")
	assert.ErrorIs(t, err, cache.ErrKeyNotFound)
}

func TestMetaStore_UnexpectedType(t *testing.T) {
	store, c := setupMetaStore(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "meta:version", 3, cache.NoExpiration))

	_, err := store.Get(ctx, "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected type")
}

func TestMetaStore_Keys(t *testing.T) {
	store, c := setupMetaStore(t)
	ctx := context.Background()

	keys, err := store.Keys(ctx, "seed:*")
	require.NoError(t, err)
	assert.Empty(t, keys)

	require.NoError(t, store.Set(ctx, "seed:bbb", "applied"))
	require.NoError(t, store.Set(ctx, "seed:aaa", "applied"))
	require.NoError(t, store.Set(ctx, "version", "1"))
	require.NoError(t, c.Set(ctx, "seed:unprefixed", "x", cache.NoExpiration))

	keys, err = store.Keys(ctx, "seed:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"seed:aaa", "seed:bbb"}, keys)
}
