// Package backend defines the storage contract behind the asynclru
// coordinator.
//
// A Backend is a bounded ordered store of entries. Implementations must be
// safe for concurrent use: the coordinator calls them without holding its own
// lock, so each instance serializes its internal state itself. Get has no
// effect on eviction order; Touch is the only read-side operation that marks
// a key most-recently-used.
package backend

import (
	"context"
	"time"
)

// Entry is a cached value together with its capture time. The coordinator
// never mutates an Entry in place; it only replaces it wholesale.
type Entry[V any] struct {
	Value     V
	Timestamp time.Time
}

// Backend is a bounded ordered store. When Set pushes the store over its
// bound, the least-recently-used key is evicted. A bound of zero disables
// storage entirely: Set becomes a no-op and Size stays zero.
type Backend[V any] interface {
	// Get returns (entry, true, nil) on hit and (zero, false, nil) on miss.
	// It must not change eviction order.
	Get(ctx context.Context, key string) (Entry[V], bool, error)

	// Set inserts or replaces an entry and marks key most-recently-used,
	// evicting the least-recently-used key if the store overflows.
	Set(ctx context.Context, key string, e Entry[V]) error

	// Delete removes a key if present. Absence is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry belonging to this backend's namespace.
	Clear(ctx context.Context) error

	// Size reports the number of stored entries.
	Size(ctx context.Context) (int, error)

	// Touch marks key most-recently-used without altering its entry.
	// Unknown keys are ignored.
	Touch(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
