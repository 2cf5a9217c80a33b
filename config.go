package asynclru

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Al0ry/async-lru-cache/backend"
	"github.com/Al0ry/async-lru-cache/backend/disk"
	"github.com/Al0ry/async-lru-cache/backend/memory"
	"github.com/Al0ry/async-lru-cache/backend/redis"
	"github.com/Al0ry/async-lru-cache/codec"
)

// BackendKind selects the storage implementation behind a Config.
type BackendKind string

const (
	Memory BackendKind = "memory"
	Disk   BackendKind = "disk"
	Redis  BackendKind = "redis"
)

// Config is the declarative construction surface: it builds the chosen
// backend and the coordinator around it in one call. Prefer Options when you
// want to construct and own the backend yourself.
type Config struct {
	// MaxSize 0 picks DefaultMaxSize; a negative value disables caching.
	MaxSize int

	// TTL of zero means entries never expire by age.
	TTL time.Duration

	// Backend defaults to Memory.
	Backend BackendKind

	Dir  string // disk only; created if absent
	Addr string // redis only; address of the shared store

	// Namespace isolates caches sharing one directory or server. Generated
	// when empty, so two unnamed configs never collide by accident - pass a
	// fixed namespace to share entries across restarts.
	Namespace string

	Logger Logger
}

// NewFromConfig builds a Cache per cfg. The codec is required for the disk
// and redis backends and ignored for memory.
func NewFromConfig[V any](ctx context.Context, cfg Config, cd codec.Codec[V]) (Cache[V], error) {
	maxsize := cfg.MaxSize
	switch {
	case maxsize == 0:
		maxsize = DefaultMaxSize
	case maxsize < 0:
		maxsize = 0
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = uuid.NewString()
	}

	var be backend.Backend[V]
	switch coalesce(cfg.Backend, Memory) {
	case Memory:
		be = memory.New[V](maxsize)
	case Disk:
		d, err := disk.New[V](disk.Config[V]{
			Dir:       cfg.Dir,
			MaxSize:   maxsize,
			Namespace: ns,
			Codec:     cd,
			Logger:    cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		be = d
	case Redis:
		r, err := redis.New[V](ctx, redis.Config[V]{
			Addr:      cfg.Addr,
			MaxSize:   maxsize,
			Namespace: ns,
			Codec:     cd,
			Logger:    cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		be = r
	default:
		return nil, fmt.Errorf("asynclru: unknown backend %q", cfg.Backend)
	}

	return New[V](Options[V]{
		Backend: be,
		MaxSize: maxsize,
		TTL:     cfg.TTL,
		Logger:  cfg.Logger,
	})
}
