// Package cache provides TTL-based key-value storage for cached origin
// responses, with Redis, filesystem, and in-memory backends.
package cache

import (
	"context"
	"time"
)

// Store is an opaque get/set key-value store with per-entry expiry.
// Entries are never deleted explicitly; they only age out.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent or its TTL has elapsed; err is reserved for backend failures.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key for ttl. The write completes before Set
	// returns, so an immediate Get with the same key observes it.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
