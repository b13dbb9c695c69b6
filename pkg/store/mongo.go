package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps values in a MongoDB collection, one document per key.
// A TTL index on expires_at lets the server purge expired documents; Get
// also checks the expiry since the purge runs only periodically.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	UpdatedAt time.Time  `bson:"updated_at"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoStore connects to uri and uses database.collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s, err := NewMongoStoreFromClient(ctx, client, database, collection)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewMongoStoreFromClient uses an existing client. Close does not
// disconnect it.
func NewMongoStoreFromClient(ctx context.Context, client *mongo.Client, database, collection string) (*MongoStore, error) {
	coll := client.Database(database).Collection(collection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, fmt.Errorf("create ttl index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find %s: %w", key, err)
	}
	if entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt) {
		return nil, false, nil
	}
	return entry.Data, true, nil
}

func (s *MongoStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	if ttl > 0 {
		exp := entry.UpdatedAt.Add(ttl)
		entry.ExpiresAt = &exp
	}
	return RetryWithBackoff(ctx, func() error {
		_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
		if err == nil {
			return nil
		}
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			return Retryable(fmt.Errorf("mongo replace %s: %w", key, err))
		}
		return fmt.Errorf("mongo replace %s: %w", key, err)
	})
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
