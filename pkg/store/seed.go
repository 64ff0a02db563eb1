package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache"
	"github.com/redhat-data-and-ai/addressbook/pkg/logger"
	"github.com/redhat-data-and-ai/addressbook/pkg/types"
)

// SeedFile is the YAML document accepted by Seed
type SeedFile struct {
	Users []types.User `yaml:"users"`
}

// SeedSummary reports what a Seed call did
type SeedSummary struct {
	Added      int
	Duplicates int
	Skipped    bool
}

const seedMetaPrefix = "seed:"

// seedMetaKey marks a seed document as applied, keyed by its content hash
func seedMetaKey(sum string) string {
	return seedMetaPrefix + sum
}

// SeedFromFile reads a YAML seed file and applies it with Seed
func (s *Store) SeedFromFile(ctx context.Context, path string) (SeedSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedSummary{}, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return s.Seed(ctx, data)
}

// Seed adds every record of a YAML seed document through User.Add.
// Records whose name already exists are skipped. A document that was already applied
// to this cache (same content hash) is not applied again, so restarts against a
// shared cache do not resurrect deleted records.
func (s *Store) Seed(ctx context.Context, data []byte) (SeedSummary, error) {
	summary := SeedSummary{}

	hash := sha256.Sum256(data)
	sum := hex.EncodeToString(hash[:])
	log := logger.Logger(ctx).WithField("seed", sum[:12])

	_, err := s.Meta.Get(ctx, seedMetaKey(sum))
	if err == nil {
		log.Info("seed document already applied, skipping")
		summary.Skipped = true
		return summary, nil
	}
	if !errors.Is(err, cache.ErrKeyNotFound) {
		return summary, err
	}

	var doc SeedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return summary, fmt.Errorf("failed to parse seed document: %w", err)
	}

	for i, user := range doc.Users {
		if user.Name == "" || user.Address == "" {
			return summary, fmt.Errorf("seed record %d: name and address are required", i)
		}
	}

	for _, user := range doc.Users {
		result, err := s.User.Add(ctx, user)
		if err != nil {
			return summary, fmt.Errorf("failed to seed user %q: %w", user.Name, err)
		}

		switch result.Outcome {
		case OutcomeAdded:
			summary.Added++
		case OutcomeDuplicateName:
			summary.Duplicates++
			log.WithField("name", user.Name).Warn("seed record already exists, skipping")
		}
	}

	if err := s.Meta.Set(ctx, seedMetaKey(sum), "applied"); err != nil {
		return summary, err
	}

	log.WithFields(logrus.Fields{
		"added":      summary.Added,
		"duplicates": summary.Duplicates,
	}).Info("seed document applied")

	return summary, nil
}

// AppliedSeeds returns the content hashes of every seed document already applied
func (s *Store) AppliedSeeds(ctx context.Context) ([]string, error) {
	keys, err := s.Meta.Keys(ctx, seedMetaPrefix+"*")
	if err != nil {
		return nil, err
	}

	sums := make([]string, 0, len(keys))
	for _, key := range keys {
		sums = append(sums, strings.TrimPrefix(key, seedMetaPrefix))
	}
	return sums, nil
}

// ResetSeeds forgets every applied seed document so the next Seed call applies it again.
// Records already added stay in the collection.
func (s *Store) ResetSeeds(ctx context.Context) (int, error) {
	sums, err := s.AppliedSeeds(ctx)
	if err != nil {
		return 0, err
	}

	for i, sum := range sums {
		if err := s.Meta.Delete(ctx, seedMetaKey(sum)); err != nil {
			return i, fmt.Errorf("failed to reset seed %s: %w", sum, err)
		}
	}

	logger.Logger(ctx).WithField("reset", len(sums)).Info("seed markers cleared")
	return len(sums), nil
}
