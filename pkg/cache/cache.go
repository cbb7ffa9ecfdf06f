// Package cache stores computed layouts and rendered artifacts.
//
// Graph construction is cheap and always recomputed; layouts (the O(n²) force
// simulation in particular) and Graphviz renders are worth keeping. Entries
// are keyed by content hashes so a changed note set never hits a stale entry.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from a graph hash plus every parameter that affects
// the result:
//
//	key := keyer.LayoutKey(graphHash, cache.LayoutKeyOpts{Algorithm: "force", Width: 1200, ...})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Clear empties c when the backend supports it and reports how many entries
// were removed.
func Clear(ctx context.Context, c Cache) (int, error) {
	if cl, ok := c.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return 0, nil
}
