package store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/matzehuels/graphview/pkg/errors"
)

// Backend names a store implementation.
type Backend string

const (
	BackendFile  Backend = "file"
	BackendNone  Backend = "none"
	BackendRedis Backend = "redis"
	BackendMongo Backend = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend Backend `json:"backend" toml:"backend" koanf:"backend"`

	// Dir is the FileStore directory. Empty means the user cache dir.
	Dir string `json:"dir" toml:"dir" koanf:"dir"`

	RedisAddr     string `json:"redis_addr" toml:"redis_addr" koanf:"redis_addr"`
	RedisPassword string `json:"redis_password" toml:"redis_password" koanf:"redis_password"`
	RedisDB       int    `json:"redis_db" toml:"redis_db" koanf:"redis_db"`

	MongoURI        string `json:"mongo_uri" toml:"mongo_uri" koanf:"mongo_uri"`
	MongoDatabase   string `json:"mongo_database" toml:"mongo_database" koanf:"mongo_database"`
	MongoCollection string `json:"mongo_collection" toml:"mongo_collection" koanf:"mongo_collection"`
}

// DefaultOptions returns a file store in the default directory.
func DefaultOptions() Options {
	return Options{
		Backend:         BackendFile,
		RedisAddr:       "localhost:6379",
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "graphview",
		MongoCollection: "layout_state",
	}
}

// Validate checks that the selected backend has what it needs.
func (o Options) Validate() error {
	if err := errors.ValidateOneOf("store.backend", string(o.Backend),
		string(BackendFile), string(BackendNone), string(BackendRedis), string(BackendMongo)); err != nil {
		return err
	}
	switch o.Backend {
	case BackendRedis:
		if o.RedisAddr == "" {
			return errors.Configuration("store.redis_addr is required for the redis backend")
		}
		if o.RedisDB < 0 {
			return errors.Configuration("store.redis_db must not be negative, got %d", o.RedisDB)
		}
	case BackendMongo:
		if o.MongoURI == "" || o.MongoDatabase == "" || o.MongoCollection == "" {
			return errors.Configuration("store.mongo_uri, store.mongo_database and store.mongo_collection are required for the mongo backend")
		}
	}
	return nil
}

// DefaultDir returns the directory used when Options.Dir is empty.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "graphview"), nil
}

// Open creates the backend described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendNone:
		s = NewNullStore()
	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			if dir, err = DefaultDir(); err != nil {
				return nil, errors.Wrap(errors.ErrCodeConfiguration, err, "resolve store directory")
			}
		}
		s, err = NewFileStore(dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case BackendMongo:
		s, err = NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
	}
	if err != nil {
		return nil, err
	}
	return Observe(s, string(opts.Backend)), nil
}
