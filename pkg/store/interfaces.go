package store

import (
	"context"

	"github.com/redhat-data-and-ai/addressbook/pkg/types"
)

// UserStoreInterface defines the user record operations
// This interface enables mocking in tests and follows the dependency inversion principle
type UserStoreInterface interface {
	// Add stores a new record
	// Returns OutcomeDuplicateName if a record with the same name (ignoring case) exists
	Add(ctx context.Context, user types.User) (Result, error)

	// Update replaces name and address of the record matching name (ignoring case)
	// Returns OutcomeNoCollection if nothing was ever stored, OutcomeNotFound if no record matches
	Update(ctx context.Context, name string, user types.User) (Result, error)

	// Delete removes the record matching name (ignoring case)
	// Returns OutcomeNoCollection if nothing was ever stored, OutcomeNotFound if no record matches
	Delete(ctx context.Context, name string) (Result, error)

	// List returns every stored record, an empty slice if none
	List(ctx context.Context) ([]types.User, error)

	// Count returns the number of stored records
	Count(ctx context.Context) (int, error)
}

// MetaStoreInterface defines operations for metadata cache operations
type MetaStoreInterface interface {
	// Get retrieves a metadata value, cache.ErrKeyNotFound if unset
	Get(ctx context.Context, key string) (string, error)

	// Set stores a metadata value
	Set(ctx context.Context, key, value string) error

	// Delete removes a metadata entry
	Delete(ctx context.Context, key string) error

	// Keys returns the unprefixed keys matching a glob pattern
	Keys(ctx context.Context, pattern string) ([]string, error)
}
