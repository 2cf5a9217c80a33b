package asynclru

import (
	"context"
	"time"

	"github.com/Al0ry/async-lru-cache/backend"
)

// CreatorFunc computes the value for a key on a cache miss.
type CreatorFunc[V any] func(ctx context.Context) (V, error)

// Cache is the get-or-compute coordinator. V is the caller's value type.
type Cache[V any] interface {
	// Get returns the cached value for key, running create to fill a miss.
	// Concurrent calls for one key share a single computation; every caller
	// observes that computation's value or its error. Creator errors are
	// propagated verbatim, never cached, and do not count as misses.
	Get(ctx context.Context, key string, create CreatorFunc[V]) (V, error)

	// Clear empties the backend, fails every in-flight computation with
	// ErrCacheCleared and resets the statistics.
	Clear(ctx context.Context) error

	// Stats returns a consistent snapshot of the counters and current size.
	Stats(ctx context.Context) (Stats, error)

	// Info renders the Stats snapshot as a short human-readable line.
	Info(ctx context.Context) string

	// Close releases the backend's resources.
	Close(ctx context.Context) error
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Hits    uint64
	Misses  uint64
	MaxSize int
	Size    int
}

// Options tune a Cache. Backend is required; its capacity must match
// MaxSize.
type Options[V any] struct {
	Backend backend.Backend[V]

	// MaxSize 0 disables caching entirely: nothing is ever stored and every
	// request recomputes.
	MaxSize int

	// TTL of zero means entries never expire by age.
	TTL time.Duration

	Logger Logger // nil => NopLogger
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
