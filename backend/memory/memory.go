// Package memory provides the in-process Backend: a map plus an intrusive
// list, giving O(1) get, touch and oldest-first eviction.
package memory

import (
	"container/list"
	"context"
	"sync"

	"github.com/Al0ry/async-lru-cache/backend"
)

type node[V any] struct {
	key   string
	entry backend.Entry[V]
}

// Store implements backend.Backend in process memory.
type Store[V any] struct {
	mu      sync.Mutex
	maxsize int
	order   *list.List               // front = least recently used
	items   map[string]*list.Element // element value is *node[V]
	onEvict func(key string, e backend.Entry[V])
}

var _ backend.Backend[int] = (*Store[int])(nil)

// Option configures a Store.
type Option[V any] func(*Store[V])

// WithEvictionHook runs fn for every entry evicted by capacity overflow.
// fn is called with the store lock held; keep it cheap.
func WithEvictionHook[V any](fn func(key string, e backend.Entry[V])) Option[V] {
	return func(s *Store[V]) { s.onEvict = fn }
}

// New returns a Store bounded to maxsize entries. maxsize <= 0 disables
// storage: Set becomes a no-op and the store stays empty.
func New[V any](maxsize int, opts ...Option[V]) *Store[V] {
	s := &Store[V]{
		maxsize: maxsize,
		order:   list.New(),
		items:   make(map[string]*list.Element),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store[V]) Get(_ context.Context, key string) (backend.Entry[V], bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.items[key]
	if !ok {
		return backend.Entry[V]{}, false, nil
	}
	return el.Value.(*node[V]).entry, true, nil
}

func (s *Store[V]) Set(_ context.Context, key string, e backend.Entry[V]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxsize <= 0 {
		return nil
	}
	if el, ok := s.items[key]; ok {
		el.Value.(*node[V]).entry = e
		s.order.MoveToBack(el)
	} else {
		s.items[key] = s.order.PushBack(&node[V]{key: key, entry: e})
	}
	if s.order.Len() > s.maxsize {
		s.evictOldest()
	}
	return nil
}

// evictOldest is called with the lock held.
func (s *Store[V]) evictOldest() {
	el := s.order.Front()
	if el == nil {
		return
	}
	n := el.Value.(*node[V])
	s.order.Remove(el)
	delete(s.items, n.key)
	if s.onEvict != nil {
		s.onEvict(n.key, n.entry)
	}
}

func (s *Store[V]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		s.order.Remove(el)
		delete(s.items, key)
	}
	return nil
}

func (s *Store[V]) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order.Init()
	s.items = make(map[string]*list.Element)
	return nil
}

func (s *Store[V]) Size(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len(), nil
}

func (s *Store[V]) Touch(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		s.order.MoveToBack(el)
	}
	return nil
}

func (s *Store[V]) Close(context.Context) error { return nil }
