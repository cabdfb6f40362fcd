// Package cache provides pluggable byte caches for rendered diagrams.
//
// Rendering is deterministic, so a diagram can be cached under a key derived
// from the graph content hash and the render options. Three backends are
// provided: [FileCache] for CLI usage, [RedisCache] for the server, and
// [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// Default TTLs per artifact kind. Renders are cheap to recompute, so the
// TTLs bound disk growth rather than protect expensive work.
const (
	TTLRender = 7 * 24 * time.Hour
	TTLSVG    = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiration.
//
// Get returns the stored bytes and whether the key was present; an absent
// key is not an error. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
