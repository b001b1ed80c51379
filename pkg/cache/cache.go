// Package cache stores solve reports so that repeated requests for the same
// bay skip the search.
//
// # Backends
//
// [Cache] is a small byte-oriented key-value interface with per-entry TTL.
// Four implementations are provided:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [BadgerCache]: an embedded BadgerDB store, for long-running servers
//     on a single host
//   - [RedisCache]: a shared Redis server, for several API replicas
//   - [NullCache]: stores nothing, for disabled caching and tests
//
// # Keys
//
// A [Keyer] derives keys from the instance and the parts of the solver
// configuration that affect the result. [ScopedKeyer] prefixes every key,
// which lets several deployments share one Redis database.
//
// Values are opaque to this package; package pipeline stores JSON-encoded
// solver reports.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with expiry. Implementations are
// safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key. A miss is reported as
	// (nil, false, nil), not as an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
