// Package store persists opaque blobs, mainly serialized layout state, for
// graph views.
//
// # Backends
//
//   - [FileStore]: one JSON file per key under a directory, for the CLI
//   - [NullStore]: stores nothing
//   - [RedisStore]: a Redis server via go-redis
//   - [MongoStore]: a MongoDB collection via the official driver
//
// [Open] selects a backend from [Options]. Every backend returned by Open is
// wrapped so that hits, misses and writes reach the registered
// [observability.StoreHooks].
//
// # Keys
//
// Keys are plain strings. [StateKey] builds the key under which a view
// stores its layout state.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/graphview/pkg/observability"
)

// Store is a key/value blob store. A zero ttl means no expiry.
type Store interface {
	// Get returns the value for key. A missing or expired key is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// StateKey returns the key for the layout state of the view with id.
func StateKey(id string) string {
	return "layout-state:" + id
}

// observed reports store traffic to the observability hooks.
type observed struct {
	Store
	backend string
}

// Observe wraps s so that its traffic is reported under backend.
func Observe(s Store, backend string) Store {
	return &observed{Store: s, backend: backend}
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.Store.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		observability.Store().OnHit(ctx, o.backend)
	} else {
		observability.Store().OnMiss(ctx, o.backend)
	}
	return data, ok, nil
}

func (o *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := o.Store.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Store().OnSet(ctx, o.backend, len(data))
	return nil
}
