// Package asynclru implements a bounded get-or-compute cache with
// least-recently-used eviction, optional time-to-live expiration, and
// single-flight deduplication: concurrent callers requesting the same key
// before a value exists share one computation and all observe its value or
// its failure.
//
// Components:
//   - Backend: bounded ordered store (backend/memory, backend/disk,
//     backend/redis).
//   - Codec[V]: (de)serializes V <-> []byte for the persistent backends.
//   - Logger: minimal structured logging; adapters for slog, zap and logrus
//     live under log/.
//
// Flow:
//
//	c, _ := asynclru.New(asynclru.Options[User]{
//		Backend: memory.New[User](128),
//		MaxSize: 128,
//		TTL:     time.Minute,
//	})
//	u, err := c.Get(ctx, "user:42", func(ctx context.Context) (User, error) {
//		return loadUser(ctx, 42)
//	})
//
// TTL is checked lazily on access; there is no background sweeper. An entry
// older than the TTL is never returned as a hit, and the read that finds it
// expired deletes it and recomputes.
package asynclru
