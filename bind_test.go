package asynclru

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/Al0ry/async-lru-cache/backend/memory"
)

func TestWrapMemoizes(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, 8, 0)
	defer cc.Close(ctx)

	var calls atomic.Int32
	double := Wrap(cc, func(_ context.Context, x int) (int, error) {
		calls.Add(1)
		return x * 2, nil
	})

	for _, x := range []int{1, 1, 2, 1} {
		v, err := double(ctx, x)
		if err != nil {
			t.Fatalf("double(%d): %v", x, err)
		}
		if v != x*2 {
			t.Fatalf("double(%d) = %d", x, v)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 computations, got %d", got)
	}
}

func TestWrap2DistinguishesArguments(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, 8, 0)
	defer cc.Close(ctx)

	var calls atomic.Int32
	concat := Wrap2(cc, func(_ context.Context, a, b string) (int, error) {
		calls.Add(1)
		return len(a + b), nil
	})

	if _, err := concat(ctx, "ab", "c"); err != nil {
		t.Fatalf("concat: %v", err)
	}
	if _, err := concat(ctx, "a", "bc"); err != nil {
		t.Fatalf("concat: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("(ab,c) and (a,bc) must cache separately, computations=%d", got)
	}
	if _, err := concat(ctx, "ab", "c"); err != nil {
		t.Fatalf("concat: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("repeat call should hit, computations=%d", got)
	}
}

func TestWrapKeyed(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, 8, 0)
	defer cc.Close(ctx)

	var calls atomic.Int32
	byID := WrapKeyed(cc, func(id int) string { return "user:" + string(rune('0'+id)) },
		func(_ context.Context, id int) (int, error) {
			calls.Add(1)
			return id * 10, nil
		})

	if v, err := byID(ctx, 3); err != nil || v != 30 {
		t.Fatalf("byID: v=%d err=%v", v, err)
	}
	if v, err := byID(ctx, 3); err != nil || v != 30 {
		t.Fatalf("byID: v=%d err=%v", v, err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 computation, got %d", got)
	}
}

func TestDefaultKeyStability(t *testing.T) {
	t.Run("map_order_independent", func(t *testing.T) {
		k1, err := DefaultKey("op", map[string]int{"a": 1, "b": 2, "c": 3})
		if err != nil {
			t.Fatalf("DefaultKey: %v", err)
		}
		k2, err := DefaultKey("op", map[string]int{"c": 3, "b": 2, "a": 1})
		if err != nil {
			t.Fatalf("DefaultKey: %v", err)
		}
		if k1 != k2 {
			t.Fatalf("equal maps must derive equal keys: %q vs %q", k1, k2)
		}
	})

	t.Run("different_args_differ", func(t *testing.T) {
		k1, _ := DefaultKey("op", 1)
		k2, _ := DefaultKey("op", 2)
		if k1 == k2 {
			t.Fatalf("distinct arguments derived the same key %q", k1)
		}
	})

	t.Run("argument_split_matters", func(t *testing.T) {
		k1, _ := DefaultKey("ab", "c")
		k2, _ := DefaultKey("a", "bc")
		if k1 == k2 {
			t.Fatalf("(ab,c) and (a,bc) derived the same key %q", k1)
		}
	})

	t.Run("unencodable_argument", func(t *testing.T) {
		if _, err := DefaultKey(func() {}); err == nil {
			t.Fatalf("DefaultKey should reject a func argument")
		}
	})
}

// Keys from DefaultKey must work as-is against the coordinator.
func TestWrapWithMapArgument(t *testing.T) {
	ctx := context.Background()
	cc, err := New[int](Options[int]{Backend: memory.New[int](8), MaxSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cc.Close(ctx)

	var calls atomic.Int32
	count := Wrap(cc, func(_ context.Context, filters map[string]string) (int, error) {
		calls.Add(1)
		return len(filters), nil
	})

	if _, err := count(ctx, map[string]string{"x": "1", "y": "2"}); err != nil {
		t.Fatalf("count: %v", err)
	}
	if _, err := count(ctx, map[string]string{"y": "2", "x": "1"}); err != nil {
		t.Fatalf("count: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("map argument order must not matter, computations=%d", got)
	}
}
