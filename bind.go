package asynclru

import (
	"context"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/Al0ry/async-lru-cache/internal/keys"
)

// KeyFunc maps call arguments to a cache key.
type KeyFunc func(args ...any) (string, error)

var keyEnc cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	keyEnc = em
}

// DefaultKey combines the arguments into a stable cache key. Arguments are
// encoded deterministically (RFC 8949 core deterministic CBOR), so map-typed
// arguments yield the same key regardless of iteration order.
func DefaultKey(args ...any) (string, error) {
	parts := make([][]byte, 0, len(args))
	for i, a := range args {
		b, err := keyEnc.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("asynclru: argument %d is not key-encodable: %w", i, err)
		}
		parts = append(parts, b)
	}
	return keys.Hash(parts...), nil
}

// Wrap memoizes a one-argument function through c, keyed by DefaultKey over
// the argument. The returned function is a drop-in replacement for fn.
func Wrap[A, V any](c Cache[V], fn func(ctx context.Context, arg A) (V, error)) func(ctx context.Context, arg A) (V, error) {
	return func(ctx context.Context, arg A) (V, error) {
		var zero V
		key, err := DefaultKey(arg)
		if err != nil {
			return zero, err
		}
		return c.Get(ctx, key, func(ctx context.Context) (V, error) {
			return fn(ctx, arg)
		})
	}
}

// Wrap2 is Wrap for two-argument functions.
func Wrap2[A, B, V any](c Cache[V], fn func(ctx context.Context, a A, b B) (V, error)) func(ctx context.Context, a A, b B) (V, error) {
	return func(ctx context.Context, a A, b B) (V, error) {
		var zero V
		key, err := DefaultKey(a, b)
		if err != nil {
			return zero, err
		}
		return c.Get(ctx, key, func(ctx context.Context) (V, error) {
			return fn(ctx, a, b)
		})
	}
}

// WrapKeyed is Wrap with a caller-chosen key derivation, for argument types
// DefaultKey cannot encode or when key layout must stay stable across
// releases.
func WrapKeyed[A, V any](c Cache[V], key func(A) string, fn func(ctx context.Context, arg A) (V, error)) func(ctx context.Context, arg A) (V, error) {
	return func(ctx context.Context, arg A) (V, error) {
		return c.Get(ctx, key(arg), func(ctx context.Context) (V, error) {
			return fn(ctx, arg)
		})
	}
}
