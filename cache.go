package asynclru

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Al0ry/async-lru-cache/backend"
)

// flight is the completion cell every concurrent requester of one key blocks
// on. It resolves exactly once; later resolutions are dropped, so a Clear
// that fails the flight wins over the computation finishing afterwards.
type flight[V any] struct {
	done chan struct{}
	once sync.Once
	val  V
	err  error
}

func newFlight[V any]() *flight[V] {
	return &flight[V]{done: make(chan struct{})}
}

func (f *flight[V]) resolve(v V, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

type cache[V any] struct {
	be      backend.Backend[V]
	maxsize int
	ttl     time.Duration
	log     Logger

	mu      sync.Mutex // guards pending, hits, misses
	pending map[string]*flight[V]
	hits    uint64
	misses  uint64

	now func() time.Time // swapped in tests
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("asynclru: backend is required")
	}
	if opts.MaxSize < 0 {
		return nil, fmt.Errorf("asynclru: maxsize must be >= 0, got %d", opts.MaxSize)
	}
	return &cache[V]{
		be:      opts.Backend,
		maxsize: opts.MaxSize,
		ttl:     opts.TTL,
		log:     coalesce[Logger](opts.Logger, NopLogger{}),
		pending: make(map[string]*flight[V]),
		now:     time.Now,
	}, nil
}

func (c *cache[V]) Get(ctx context.Context, key string, create CreatorFunc[V]) (V, error) {
	var zero V
	if create == nil {
		return zero, fmt.Errorf("asynclru: creator is required")
	}

	if v, ok := c.lookup(ctx, key); ok {
		return v, nil
	}

	c.mu.Lock()
	if f, ok := c.pending[key]; ok {
		c.mu.Unlock()
		return c.await(ctx, key, f)
	}
	f := newFlight[V]()
	c.pending[key] = f
	c.mu.Unlock()

	return c.fill(ctx, key, f, create)
}

// lookup is the read-through path: a fresh entry is touched and counted as a
// hit, an expired one is deleted, and backend faults degrade to misses.
func (c *cache[V]) lookup(ctx context.Context, key string) (V, bool) {
	var zero V
	e, ok, err := c.be.Get(ctx, key)
	if err != nil {
		c.log.Warn("backend get failed; treating as miss", Fields{"key": key, "err": err})
		return zero, false
	}
	if !ok {
		return zero, false
	}
	if c.expired(e) {
		if derr := c.be.Delete(ctx, key); derr != nil {
			c.log.Warn("delete of expired entry failed", Fields{"key": key, "err": derr})
		}
		return zero, false
	}
	if terr := c.be.Touch(ctx, key); terr != nil {
		c.log.Warn("backend touch failed", Fields{"key": key, "err": terr})
	}
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
	return e.Value, true
}

func (c *cache[V]) expired(e backend.Entry[V]) bool {
	return c.ttl > 0 && c.now().Sub(e.Timestamp) > c.ttl
}

// await blocks on another caller's in-flight computation. Abandoning the
// wait does not cancel the computation; it still completes and populates the
// backend for later callers.
func (c *cache[V]) await(ctx context.Context, key string, f *flight[V]) (V, error) {
	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-f.done:
	}
	if f.err != nil {
		return zero, f.err
	}
	// The entry may have been replaced, or re-expired, between the flight
	// resolving and this waiter resuming; prefer whatever the backend holds
	// now.
	if v, ok := c.lookup(ctx, key); ok {
		return v, nil
	}
	return f.val, nil
}

// fill runs the computation this caller registered and publishes its
// outcome. No lock is held while create or backend I/O executes.
func (c *cache[V]) fill(ctx context.Context, key string, f *flight[V], create CreatorFunc[V]) (V, error) {
	var zero V

	v, err := create(ctx)
	if err != nil {
		c.mu.Lock()
		if c.pending[key] == f {
			delete(c.pending, key)
		}
		c.mu.Unlock()
		f.resolve(zero, err)
		// If a Clear resolved the flight first, report its error instead so
		// every caller of this flight agrees on the outcome.
		return zero, f.err
	}

	// Another path may have repopulated the key while we were computing.
	cur, ok, gerr := c.be.Get(ctx, key)
	if gerr != nil {
		c.log.Warn("backend get failed during fill", Fields{"key": key, "err": gerr})
		ok = false
	}

	c.mu.Lock()
	current := c.pending[key] == f
	if current {
		delete(c.pending, key)
	}
	if !current {
		// Superseded by a Clear: drop this result without touching the
		// counters or the backend, and report the flight's outcome.
		c.mu.Unlock()
		f.resolve(v, nil)
		if f.err != nil {
			return zero, f.err
		}
		return f.val, nil
	}
	if ok && !c.expired(cur) {
		// Keep the fresher entry; counted as a hit so the statistics match
		// what a plain read would have recorded.
		c.hits++
		c.mu.Unlock()
		if terr := c.be.Touch(ctx, key); terr != nil {
			c.log.Warn("backend touch failed", Fields{"key": key, "err": terr})
		}
		f.resolve(cur.Value, nil)
		return cur.Value, nil
	}
	c.misses++
	c.mu.Unlock()

	if c.maxsize > 0 {
		if serr := c.be.Set(ctx, key, backend.Entry[V]{Value: v, Timestamp: c.now()}); serr != nil {
			// Persistence faults never break the request path; the caller
			// still gets its value.
			c.log.Warn("backend set failed; result not cached", Fields{"key": key, "err": serr})
		}
	}
	f.resolve(v, nil)
	return v, nil
}

// Clear runs under the coordinator mutex end to end so concurrent Gets
// observe the counter reset and the emptied backend as one step.
func (c *cache[V]) Clear(ctx context.Context) error {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.pending {
		f.resolve(zero, ErrCacheCleared)
	}
	c.pending = make(map[string]*flight[V])
	c.hits, c.misses = 0, 0
	return c.be.Clear(ctx)
}

func (c *cache[V]) Stats(ctx context.Context) (Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Stats{Hits: c.hits, Misses: c.misses, MaxSize: c.maxsize}
	n, err := c.be.Size(ctx)
	if err != nil {
		return st, err
	}
	st.Size = n
	return st, nil
}

func (c *cache[V]) Info(ctx context.Context) string {
	st, err := c.Stats(ctx)
	if err != nil {
		c.log.Warn("backend size failed", Fields{"err": err})
	}
	return fmt.Sprintf("hits=%d, misses=%d, maxsize=%d, currsize=%d",
		st.Hits, st.Misses, st.MaxSize, st.Size)
}

func (c *cache[V]) Close(ctx context.Context) error {
	return c.be.Close(ctx)
}
