package store

import (
	"github.com/redhat-data-and-ai/addressbook/pkg/cache"
	"github.com/redhat-data-and-ai/addressbook/pkg/telemetry"
)

// Store provides a high-level interface for managing user records and metadata in cache
// It encapsulates key prefixing and JSON serialization
type Store struct {
	User UserStoreInterface
	Meta MetaStoreInterface
}

type Option func(*options)

type options struct {
	metrics *telemetry.RecordMetrics
}

// WithMetrics records every user store operation on m
func WithMetrics(m *telemetry.RecordMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New creates a new Store instance with all sub-stores initialized
func New(cache cache.Cache, opts ...Option) *Store {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	return &Store{
		User: newUserStore(cache, o.metrics),
		Meta: newMetaStore(cache),
	}
}

// Compile-time interface compliance checks
var (
	_ UserStoreInterface = (*UserStore)(nil)
	_ MetaStoreInterface = (*MetaStore)(nil)
)
