// Package cache stores intermediate and final pipeline results.
//
// Three stages are cached independently: the analysis of an input text (the
// ranked frequency table), the layout computed from a table, and the rendered
// artifacts of a layout. Keys are derived from content hashes plus the
// options that influence each stage, so changing only the output format
// reuses a cached layout.
//
// Implementations:
//   - [FileCache]: local directory, shared between concurrent CLI processes
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the cached bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default TTLs per stage.
const (
	TTLAnalysis = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
