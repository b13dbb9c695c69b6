package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileStore keeps one file per key in a directory, with an optional expiry.
type FileStore struct {
	dir string
}

// NewFileStore creates a store in dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// corrupt entries are dropped
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

func (s *FileStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) Close() error { return nil }

// path spreads keys over 256 subdirectories by hash prefix.
func (s *FileStore) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

var _ Store = (*FileStore)(nil)
