// Package cache stores rendered artifacts between runs.
//
// Three backends implement [Cache]:
//   - [FileCache] keeps entries as JSON files below a directory (CLI default)
//   - [RedisCache] shares entries between server instances
//   - [NullCache] stores nothing (--no-cache)
//
// Keys come from a [Keyer]. The default layout is
// artifact:<sha256 of inputs and options>:<format>.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Get reports a miss with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
// Clear returns the number of entries removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// DefaultTTL bounds how long a rendered artifact is reused.
const DefaultTTL = 7 * 24 * time.Hour
