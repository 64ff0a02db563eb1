package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache"
	"github.com/redhat-data-and-ai/addressbook/pkg/cache/inmemory"
	"github.com/redhat-data-and-ai/addressbook/pkg/types"
)

// MutationTestCase defines a table test for Add, Update and Delete.
// Seed is added before the operation runs; a nil Seed leaves the collection slot unset.
type MutationTestCase struct {
	Name        string
	Seed        []types.User
	Target      string
	User        types.User
	WantOutcome Outcome
	WantUsers   []types.User
}

// mutation runs one user store operation for a MutationTestCase
type mutation func(ctx context.Context, s UserStoreInterface, tc MutationTestCase) (Result, error)

func newTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := inmemory.NewCache(&inmemory.Config{
		DefaultExpiration: 300,
		CleanupInterval:   600,
	})
	require.NoError(t, err)
	return c
}

func setupUserStore(t *testing.T) (*UserStore, cache.Cache) {
	t.Helper()
	c := newTestCache(t)
	return newUserStore(c, nil), c
}

// seedCollection writes users straight into the collection slot
func seedCollection(t *testing.T, c cache.Cache, users []types.User) {
	t.Helper()
	if users == nil {
		return
	}
	require.NoError(t, saveCollection(context.Background(), c, CollectionKey, users))
}

// RunMutationTests runs table-driven tests for a mutating operation
func RunMutationTests(t *testing.T, tests []MutationTestCase, op mutation) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			store, c := setupUserStore(t)
			seedCollection(t, c, tt.Seed)

			ctx := context.Background()
			result, err := op(ctx, store, tt)
			require.NoError(t, err)

			assert.Equal(t, tt.WantOutcome, result.Outcome)
			assert.Equal(t, tt.WantOutcome.Message(), result.Message)

			users, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.WantUsers, users)
		})
	}
}
