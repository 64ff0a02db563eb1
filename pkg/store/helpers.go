package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache"
	"github.com/redhat-data-and-ai/addressbook/pkg/types"
)

// loadCollection reads the JSON encoded collection stored under key.
// found is false when the slot has never been written.
func loadCollection(ctx context.Context, c cache.Cache, key string) (users []types.User, found bool, err error) {
	val, err := c.Get(ctx, key)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return []types.User{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read user collection: %w", err)
	}

	raw, ok := val.(string)
	if !ok {
		return nil, false, fmt.Errorf("unexpected user collection type %T", val)
	}

	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal user collection: %w", err)
	}

	// a stored "null" still counts as an existing, empty collection
	if users == nil {
		users = []types.User{}
	}

	return users, true, nil
}

// saveCollection writes the collection back under key without expiration
func saveCollection(ctx context.Context, c cache.Cache, key string, users []types.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal user collection: %w", err)
	}

	if err := c.Set(ctx, key, string(data), cache.NoExpiration); err != nil {
		return fmt.Errorf("failed to set user collection in cache: %w", err)
	}

	return nil
}

// sameName compares record names case-insensitively. An empty name never matches.
func sameName(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}

// indexOf returns the position of the record named name, or -1
func indexOf(users []types.User, name string) int {
	for i := range users {
		if sameName(users[i].Name, name) {
			return i
		}
	}
	return -1
}
