// Package cache stores rendered chart artifacts keyed by a hash of their
// inputs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for the HTTP server and [NullCache] when caching is disabled. A [Keyer]
// derives keys from the input hash and the render options, so that the
// same dataset and spec rendered with the same options hits the cache.
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries.
const (
	ArtifactTTL = 24 * time.Hour
	LayoutTTL   = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry. A miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
