package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"
)

// fileEntry is the on-disk envelope for one cached value.
type fileEntry struct {
	FetchedAt time.Time       `json:"fetched_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Body      json.RawMessage `json:"body"`
}

// FileStore implements Store using filesystem storage. Useful for local
// development where no Redis is running.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-based store rooted at dir.
// If dir is empty, a default directory under the user's home is used.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		usr, err := user.Current()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(usr.HomeDir, ".lessonproxy_cache")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	return &FileStore{dir: dir}, nil
}

// Get implements Store. Unreadable or corrupt entries are treated as misses.
func (fs *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		return nil, false, nil
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false, nil
	}

	if time.Now().After(entry.ExpiresAt) {
		return nil, false, nil
	}

	return entry.Body, true, nil
}

// Set implements Store
func (fs *FileStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now()
	entry := fileEntry{
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
		Body:      json.RawMessage(value),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	// Write to temporary file first, then rename (atomic operation)
	path := fs.path(key)
	tmpPath := path + fmt.Sprintf(".tmp.%d", rand.Int())
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// path generates the full filesystem path for a cache key
func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, sanitizeKey(key)+".json")
}

// sanitizeKey ensures the key is safe for use as a filename
func sanitizeKey(key string) string {
	// For very long keys, use hash to avoid filesystem limits
	if len(key) > 200 {
		hash := md5.Sum([]byte(key))
		return fmt.Sprintf("hash_%x", hash)
	}

	unsafe := []string{"/", "\\", ":", "?", "&", "=", "#", "<", ">", "|", "*", "\""}
	result := key
	for _, char := range unsafe {
		result = strings.ReplaceAll(result, char, "_")
	}

	return result
}
