// Package redis provides a Backend shared through a Redis server.
//
// Values live under "<ns>:<key>" and LRU order lives in an explicit list
// (Redis has no intrinsic ordering). Every mutation that must keep the value
// and the list consistent - set with eviction, touch, delete, clear - runs
// as a single server-side Lua script, so the pair cannot desynchronize on a
// partial failure and instances sharing a namespace serialize on the server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Al0ry/async-lru-cache/backend"
	"github.com/Al0ry/async-lru-cache/codec"
	"github.com/Al0ry/async-lru-cache/internal/wire"
)

// Config for New. Codec and either Client or Addr are required.
type Config[V any] struct {
	// Client takes precedence over Addr. Set CloseClient only when this
	// backend exclusively owns the client; a client built from Addr is
	// always owned.
	Client      goredis.UniversalClient
	Addr        string
	CloseClient bool

	MaxSize   int
	Namespace string // optional; isolates caches sharing one server
	Codec     codec.Codec[V]
	Logger    backend.Logger
}

// Store implements backend.Backend on a shared Redis server.
type Store[V any] struct {
	rdb         goredis.UniversalClient
	closeClient bool
	maxsize     int
	ns          string
	listKey     string
	codec       codec.Codec[V]
	log         backend.Logger
}

var _ backend.Backend[int] = (*Store[int])(nil)

// setScript stores the value, moves its key to the MRU end of the list and
// evicts the LRU key when over capacity, atomically.
var setScript = goredis.NewScript(`
redis.call('SET', KEYS[1], ARGV[1])
redis.call('LREM', KEYS[2], 0, KEYS[1])
redis.call('RPUSH', KEYS[2], KEYS[1])
if redis.call('LLEN', KEYS[2]) > tonumber(ARGV[2]) then
	local victim = redis.call('LPOP', KEYS[2])
	if victim then
		redis.call('DEL', victim)
	end
end
return 1
`)

var touchScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	redis.call('LREM', KEYS[2], 0, KEYS[1])
	redis.call('RPUSH', KEYS[2], KEYS[1])
	return 1
end
return 0
`)

var delScript = goredis.NewScript(`
redis.call('DEL', KEYS[1])
redis.call('LREM', KEYS[2], 0, KEYS[1])
return 1
`)

var clearScript = goredis.NewScript(`
local members = redis.call('LRANGE', KEYS[1], 0, -1)
for _, k in ipairs(members) do
	redis.call('DEL', k)
end
redis.call('DEL', KEYS[1])
return #members
`)

// New pings the server and fails with backend.UnavailableError when it is
// unreachable; connectivity problems surface at construction, not first use.
func New[V any](ctx context.Context, cfg Config[V]) (*Store[V], error) {
	if cfg.Codec == nil {
		return nil, fmt.Errorf("redis backend: codec is required")
	}
	rdb := cfg.Client
	closeClient := cfg.CloseClient
	if rdb == nil {
		if cfg.Addr == "" {
			return nil, fmt.Errorf("redis backend: client or addr is required")
		}
		rdb = goredis.NewClient(&goredis.Options{Addr: cfg.Addr})
		closeClient = true
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		if closeClient {
			_ = rdb.Close()
		}
		return nil, &backend.UnavailableError{Backend: "redis", Err: err}
	}

	listKey := "lru:cache"
	if cfg.Namespace != "" {
		listKey = "lru:" + cfg.Namespace
	}
	log := cfg.Logger
	if log == nil {
		log = backend.NopLogger{}
	}
	return &Store[V]{
		rdb:         rdb,
		closeClient: closeClient,
		maxsize:     cfg.MaxSize,
		ns:          cfg.Namespace,
		listKey:     listKey,
		codec:       cfg.Codec,
		log:         log,
	}, nil
}

func (s *Store[V]) valueKey(key string) string {
	if s.ns == "" {
		return key
	}
	return s.ns + ":" + key
}

func (s *Store[V]) Get(ctx context.Context, key string) (backend.Entry[V], bool, error) {
	var zero backend.Entry[V]
	b, err := s.rdb.Get(ctx, s.valueKey(key)).Bytes()
	if err == goredis.Nil {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	rec, err := wire.Decode(b)
	if err != nil {
		// Undecodable remote record: treat as absent and drop it.
		s.log.Warn("redis backend: dropping undecodable entry", backend.Fields{"key": key, "err": err})
		_ = s.Delete(ctx, key)
		return zero, false, nil
	}
	v, err := s.codec.Decode(rec.Payload)
	if err != nil {
		s.log.Warn("redis backend: dropping undecodable value", backend.Fields{"key": key, "err": err})
		_ = s.Delete(ctx, key)
		return zero, false, nil
	}
	return backend.Entry[V]{Value: v, Timestamp: time.Unix(0, rec.UnixNano)}, true, nil
}

func (s *Store[V]) Set(ctx context.Context, key string, e backend.Entry[V]) error {
	if s.maxsize <= 0 {
		return nil
	}
	payload, err := s.codec.Encode(e.Value)
	if err != nil {
		return err
	}
	b, err := wire.Encode(wire.Record{Key: key, Payload: payload, UnixNano: e.Timestamp.UnixNano()})
	if err != nil {
		return err
	}
	return setScript.Run(ctx, s.rdb, []string{s.valueKey(key), s.listKey}, b, s.maxsize).Err()
}

func (s *Store[V]) Delete(ctx context.Context, key string) error {
	return delScript.Run(ctx, s.rdb, []string{s.valueKey(key), s.listKey}).Err()
}

func (s *Store[V]) Clear(ctx context.Context) error {
	return clearScript.Run(ctx, s.rdb, []string{s.listKey}).Err()
}

func (s *Store[V]) Size(ctx context.Context) (int, error) {
	n, err := s.rdb.LLen(ctx, s.listKey).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *Store[V]) Touch(ctx context.Context, key string) error {
	return touchScript.Run(ctx, s.rdb, []string{s.valueKey(key), s.listKey}).Err()
}

// Close releases the client only when this backend owns it. Safe to call
// more than once.
func (s *Store[V]) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
