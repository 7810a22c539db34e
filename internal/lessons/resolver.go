// Package lessons implements the cache-aside content resolver: check the
// store, fall back to the origin on miss, repopulate, return the payload
// untouched.
package lessons

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sspmdev/lessonproxy/cache"
	"github.com/sspmdev/lessonproxy/internal/github"
)

// DefaultTTL is how long a fetched content listing stays valid in the store.
const DefaultTTL = time.Hour

// keyPrefix namespaces resolver entries inside the shared store.
const keyPrefix = "github:"

// Origin fetches a content listing for a canonical lesson path.
type Origin interface {
	FetchContents(ctx context.Context, canonicalPath string) (*github.ContentResult, error)
}

// EmptyResultError means the origin answered successfully but with nothing
// usable (a null body or an empty listing).
type EmptyResultError struct {
	Path string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no content found for %s", e.Path)
}

// Resolver is a read-through cache over the origin. Concurrent misses on
// the same key are not coalesced: each fetches independently and the last
// write wins.
type Resolver struct {
	origin Origin
	store  cache.Store
	ttl    time.Duration
	log    zerolog.Logger
}

func NewResolver(origin Origin, store cache.Store, ttl time.Duration, logger zerolog.Logger) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{origin: origin, store: store, ttl: ttl, log: logger}
}

// CacheKey returns the store key for a path, e.g. "github:/en/2024-q1".
func CacheKey(p Path) string {
	return keyPrefix + p.Canonical()
}

// Resolve returns the content listing for p. A fresh cache entry
// short-circuits everything; otherwise the origin is fetched once, the
// store is repopulated, and the result is returned as received. Store
// read failures degrade to a miss rather than failing the request.
func (r *Resolver) Resolve(ctx context.Context, p Path) (*github.ContentResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	canonical := p.Canonical()
	key := keyPrefix + canonical

	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache read failed, falling through to origin")
	} else if ok {
		var cached github.ContentResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			r.log.Debug().Str("key", key).Msg("cache hit")
			return &cached, nil
		}
		// corrupt entry: refetch and overwrite below
		r.log.Warn().Str("key", key).Msg("cache entry corrupt, refetching")
	}

	result, err := r.origin.FetchContents(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if result.IsEmpty() {
		return nil, &EmptyResultError{Path: canonical}
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode cache entry for %s: %w", canonical, err)
	}
	// The write must land before we return so the very next Resolve with
	// this key can hit cache. A failed write only costs a refetch later.
	if err := r.store.Set(ctx, key, encoded, r.ttl); err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	} else {
		r.log.Debug().Str("key", key).Dur("ttl", r.ttl).Msg("cache store")
	}

	return result, nil
}
