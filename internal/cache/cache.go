package cache

import (
	"sync"
	"time"
)

// Cache memoizes loader results per key for ttl. Concurrent loads of the
// same key wait for a single loader call.
type Cache[K comparable, T any] struct {
	m      sync.Map
	ttl    time.Duration
	loader func(key K) T
}

type entry[T any] struct {
	mx    sync.Mutex
	value T
	ts    time.Time
}

func NewWithTTL[K comparable, T any](ttl time.Duration, loader func(key K) T) *Cache[K, T] {
	return &Cache[K, T]{
		ttl:    ttl,
		loader: loader,
	}
}

func (c *Cache[K, T]) Load(key K) T {
	v, _ := c.m.LoadOrStore(key, new(entry[T]))
	e := v.(*entry[T])

	e.mx.Lock()
	defer e.mx.Unlock()

	if e.ts.IsZero() || time.Since(e.ts) > c.ttl {
		e.value = c.loader(key)
		e.ts = time.Now()
	}

	return e.value
}

// Invalidate forces the next Load of key to call the loader.
func (c *Cache[K, T]) Invalidate(key K) {
	c.m.Delete(key)
}

func (c *Cache[K, T]) Reset() {
	c.m.Range(func(key, _ any) bool {
		c.m.Delete(key)
		return true
	})
}
