package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/addressbook/pkg/cache"
	"github.com/redhat-data-and-ai/addressbook/pkg/logger"
	"github.com/redhat-data-and-ai/addressbook/pkg/telemetry"
	"github.com/redhat-data-and-ai/addressbook/pkg/types"
)

// CollectionKey is the cache slot holding every user record
const CollectionKey = "records:users"

const (
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"
	opList   = "list"
)

// UserStore keeps the user collection as one JSON document under CollectionKey.
// Every operation is a read-modify-write of that document, serialised by mu.
// The lock is process-local: replicas sharing a redis cache can still race.
type UserStore struct {
	cache   cache.Cache
	metrics *telemetry.RecordMetrics
	mu      sync.Mutex
}

// newUserStore creates a new UserStore instance
func newUserStore(c cache.Cache, metrics *telemetry.RecordMetrics) *UserStore {
	return &UserStore{
		cache:   c,
		metrics: metrics,
	}
}

// Add appends user unless a record with the same name (ignoring case) exists
func (s *UserStore) Add(ctx context.Context, user types.User) (result Result, err error) {
	start := time.Now()
	defer func() { s.record(ctx, opAdd, user.Name, start, result, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	users, _, err := loadCollection(ctx, s.cache, CollectionKey)
	if err != nil {
		return Result{}, err
	}

	if indexOf(users, user.Name) >= 0 {
		return newResult(OutcomeDuplicateName), nil
	}

	users = append(users, user)
	if err := saveCollection(ctx, s.cache, CollectionKey, users); err != nil {
		return Result{}, err
	}

	return newResult(OutcomeAdded), nil
}

// Update overwrites name and address of the record matching name.
// Renaming onto a name held by another record is rejected as a duplicate.
func (s *UserStore) Update(ctx context.Context, name string, user types.User) (result Result, err error) {
	start := time.Now()
	defer func() { s.record(ctx, opUpdate, name, start, result, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	users, found, err := loadCollection(ctx, s.cache, CollectionKey)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return newResult(OutcomeNoCollection), nil
	}

	idx := indexOf(users, name)
	if idx < 0 {
		return newResult(OutcomeNotFound), nil
	}

	if other := indexOf(users, user.Name); other >= 0 && other != idx {
		return newResult(OutcomeDuplicateName), nil
	}

	users[idx].Name = user.Name
	users[idx].Address = user.Address

	if err := saveCollection(ctx, s.cache, CollectionKey, users); err != nil {
		return Result{}, err
	}

	return newResult(OutcomeUpdated), nil
}

// Delete removes the single record matching name
func (s *UserStore) Delete(ctx context.Context, name string) (result Result, err error) {
	start := time.Now()
	defer func() { s.record(ctx, opDelete, name, start, result, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	users, found, err := loadCollection(ctx, s.cache, CollectionKey)
	if err != nil {
		return Result{}, err
	}
	if !found {
		return newResult(OutcomeNoCollection), nil
	}

	idx := indexOf(users, name)
	if idx < 0 {
		return newResult(OutcomeNotFound), nil
	}

	users = append(users[:idx], users[idx+1:]...)
	if err := saveCollection(ctx, s.cache, CollectionKey, users); err != nil {
		return Result{}, err
	}

	return newResult(OutcomeDeleted), nil
}

// List returns the stored records in insertion order, never nil
func (s *UserStore) List(ctx context.Context) (users []types.User, err error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordOperation(ctx, opList, "", start, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	users, _, err = loadCollection(ctx, s.cache, CollectionKey)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of stored records
func (s *UserStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, _, err := loadCollection(ctx, s.cache, CollectionKey)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

func (s *UserStore) record(ctx context.Context, op, name string, start time.Time, result Result, err error) {
	s.metrics.RecordOperation(ctx, op, result.Outcome.String(), start, err)

	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"operation": op,
		"name":      name,
	})
	if err != nil {
		log.WithError(err).Error("user store operation failed")
		return
	}
	log.WithField("outcome", result.Outcome.String()).Debug("user store operation completed")
}
