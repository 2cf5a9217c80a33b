// Package disk provides a Backend persisted as one file per entry under a
// cache directory.
//
// Construction scans the directory for files carrying the configured
// namespace prefix and rehydrates an in-memory index from them; a file that
// cannot be read or decoded makes that entry absent, nothing more. The index
// stays the source of truth for what is cached within the process: faults
// while writing or removing entry files are logged and swallowed, so a
// persistence problem degrades to an entry that will not survive a restart
// rather than a failed request. Rehydration follows directory listing order,
// so the recovered LRU order is unspecified.
package disk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Al0ry/async-lru-cache/backend"
	"github.com/Al0ry/async-lru-cache/backend/memory"
	"github.com/Al0ry/async-lru-cache/codec"
	"github.com/Al0ry/async-lru-cache/internal/keys"
	"github.com/Al0ry/async-lru-cache/internal/wire"
)

// Config for New. Dir and Codec are required.
type Config[V any] struct {
	Dir       string
	MaxSize   int
	Namespace string // optional; isolates caches sharing one directory
	Codec     codec.Codec[V]
	Logger    backend.Logger
}

// Store implements backend.Backend on top of a directory of entry files,
// with an in-memory LRU index in front.
type Store[V any] struct {
	mu      sync.Mutex
	dir     string
	ns      string
	maxsize int
	codec   codec.Codec[V]
	log     backend.Logger
	index   *memory.Store[V]
}

var _ backend.Backend[int] = (*Store[int])(nil)

// New creates the cache directory if absent, then rehydrates the index from
// any persisted entries matching the namespace prefix.
func New[V any](cfg Config[V]) (*Store[V], error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("disk backend: dir is required")
	}
	if cfg.Codec == nil {
		return nil, fmt.Errorf("disk backend: codec is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, &backend.UnavailableError{Backend: "disk", Err: err}
	}

	s := &Store[V]{
		dir:     cfg.Dir,
		ns:      cfg.Namespace,
		maxsize: cfg.MaxSize,
		codec:   cfg.Codec,
		log:     cfg.Logger,
	}
	if s.log == nil {
		s.log = backend.NopLogger{}
	}
	s.index = memory.New[V](cfg.MaxSize, memory.WithEvictionHook[V](s.removeFile))
	s.load()
	return s, nil
}

// load rehydrates the index. Per-file failures are non-fatal.
func (s *Store[V]) load() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Warn("disk backend: scan failed", backend.Fields{"dir": s.dir, "err": err})
		return
	}
	ctx := context.Background()
	prefix := keys.FilePrefix(s.ns)
	for _, de := range entries {
		if de.IsDir() || !strings.HasPrefix(de.Name(), prefix) {
			continue
		}
		b, err := os.ReadFile(filepath.Join(s.dir, de.Name()))
		if err != nil {
			continue
		}
		rec, err := wire.Decode(b)
		if err != nil {
			s.log.Warn("disk backend: skipping undecodable entry", backend.Fields{"file": de.Name(), "err": err})
			continue
		}
		v, err := s.codec.Decode(rec.Payload)
		if err != nil {
			s.log.Warn("disk backend: skipping undecodable value", backend.Fields{"file": de.Name(), "err": err})
			continue
		}
		_ = s.index.Set(ctx, rec.Key, backend.Entry[V]{Value: v, Timestamp: time.Unix(0, rec.UnixNano)})
	}
}

func (s *Store[V]) Get(ctx context.Context, key string) (backend.Entry[V], bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Get(ctx, key)
}

func (s *Store[V]) Set(ctx context.Context, key string, e backend.Entry[V]) error {
	if s.maxsize <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist(key, e)
	// May evict the oldest entry, removing its file through the hook.
	return s.index.Set(ctx, key, e)
}

// persist writes the entry file; failures are logged, not returned.
func (s *Store[V]) persist(key string, e backend.Entry[V]) {
	payload, err := s.codec.Encode(e.Value)
	if err != nil {
		s.log.Warn("disk backend: encode failed; entry not persisted", backend.Fields{"key": key, "err": err})
		return
	}
	b, err := wire.Encode(wire.Record{Key: key, Payload: payload, UnixNano: e.Timestamp.UnixNano()})
	if err != nil {
		s.log.Warn("disk backend: encode failed; entry not persisted", backend.Fields{"key": key, "err": err})
		return
	}
	path := filepath.Join(s.dir, keys.FileName(s.ns, key))
	if err := os.WriteFile(path, b, 0o644); err != nil {
		s.log.Warn("disk backend: write failed; entry not persisted", backend.Fields{"path": path, "err": err})
	}
}

func (s *Store[V]) removeFile(key string, _ backend.Entry[V]) {
	path := filepath.Join(s.dir, keys.FileName(s.ns, key))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("disk backend: remove failed", backend.Fields{"path": path, "err": err})
	}
}

func (s *Store[V]) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.index.Delete(ctx, key); err != nil {
		return err
	}
	s.removeFile(key, backend.Entry[V]{})
	return nil
}

func (s *Store[V]) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.index.Clear(ctx); err != nil {
		return err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Warn("disk backend: scan failed during clear", backend.Fields{"dir": s.dir, "err": err})
		return nil
	}
	prefix := keys.FilePrefix(s.ns)
	for _, de := range entries {
		if de.IsDir() || !strings.HasPrefix(de.Name(), prefix) {
			continue
		}
		path := filepath.Join(s.dir, de.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("disk backend: remove failed during clear", backend.Fields{"path": path, "err": err})
		}
	}
	return nil
}

func (s *Store[V]) Size(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Size(ctx)
}

func (s *Store[V]) Touch(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Touch(ctx, key)
}

func (s *Store[V]) Close(context.Context) error { return nil }
