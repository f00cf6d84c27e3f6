// Package cache provides byte-level caching for the org chart pipeline.
//
// Every stage of the pipeline that is worth skipping on a repeat run stores its
// output here under a content-derived key: fetched hierarchy documents, laid-out
// charts and rendered artifacts. Keys are produced by a [Keyer] so that the
// CLI, the HTTP server and tests agree on them.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory; used by the CLI.
//   - [RedisCache]: go-redis backed; used by the server.
//   - [MongoCache]: a TTL-indexed MongoDB collection; used by the server.
//   - [NullCache]: stores nothing; used when caching is disabled.
//
// Misses are not errors: Get reports them through its bool result.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get returns the stored bytes and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live per entry kind.
const (
	TTLHTTP     = time.Hour
	TTLChart    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
