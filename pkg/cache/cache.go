// Package cache stores analysis results keyed by a hash of the dataset and
// the options that produced them.
//
// Three backends implement [Cache]: [NullCache] disables caching,
// [FileCache] keeps entries under a local directory for the CLI, and
// [RedisCache] shares entries between server instances. Keys come from a
// [Keyer] so that callers never build key strings by hand.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLAnalysis is how long a full analysis result stays cached.
	TTLAnalysis = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}
