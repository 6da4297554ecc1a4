// Package cache stores computed layouts and rendered artifacts.
//
// A cache is only ever an optimization: every entry can be recomputed from
// the schema, so backends treat corrupt or expired entries as misses and
// callers ignore write failures.
//
// Backends:
//
//   - [FileCache] stores entries as JSON files under a directory (CLI default).
//   - [RedisCache] stores entries in Redis with native expiry.
//   - [MongoCache] stores entries in a MongoDB collection.
//   - [NullCache] stores nothing.
//
// Keys come from a [Keyer], which hashes the inputs that determine an entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases connections.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLs per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
