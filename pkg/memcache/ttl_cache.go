// Package memcache is a small in-process TTL map. Entries slide forward on
// every read so that active keys stay alive.
package memcache

import (
	"context"
	"sync"
	"time"
)

type Cache[V any] interface {
	Set(key string, value V)
	// Get returns the value and extends its lifetime. Expired entries are
	// removed and reported as missing.
	Get(key string) (V, bool)
	Delete(key string)
	// Sweep evicts every expired entry and returns how many were removed.
	Sweep() int
	Len() int
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type TTLCache[V any] struct {
	mu      sync.Mutex
	data    map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
	onEvict func(key string, value V)
}

type Option[V any] func(*TTLCache[V])

// WithClock replaces time.Now, mostly for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *TTLCache[V]) { c.now = now }
}

// WithEvict registers a callback run after an entry expires or is deleted.
// It is called without the cache lock held.
func WithEvict[V any](fn func(key string, value V)) Option[V] {
	return func(c *TTLCache[V]) { c.onEvict = fn }
}

func NewTTLCache[V any](ttl time.Duration, opts ...Option[V]) *TTLCache[V] {
	c := &TTLCache[V]{
		data: make(map[string]entry[V]),
		ttl:  ttl,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	old, replaced := c.data[key]
	c.data[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	if replaced {
		c.evicted(key, old.value)
	}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V
	c.mu.Lock()
	e, ok := c.data[key]
	if !ok {
		c.mu.Unlock()
		return zero, false
	}
	now := c.now()
	if now.After(e.expiresAt) {
		delete(c.data, key)
		c.mu.Unlock()
		c.evicted(key, e.value)
		return zero, false
	}
	e.expiresAt = now.Add(c.ttl)
	c.data[key] = e
	c.mu.Unlock()
	return e.value, true
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	e, ok := c.data[key]
	delete(c.data, key)
	c.mu.Unlock()
	if ok {
		c.evicted(key, e.value)
	}
}

func (c *TTLCache[V]) Sweep() int {
	now := c.now()
	expired := map[string]V{}
	c.mu.Lock()
	for k, e := range c.data {
		if now.After(e.expiresAt) {
			expired[k] = e.value
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
	for k, v := range expired {
		c.evicted(k, v)
	}
	return len(expired)
}

func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

func (c *TTLCache[V]) evicted(key string, value V) {
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}

// RunJanitor sweeps every interval until ctx is done.
func RunJanitor[V any](ctx context.Context, c Cache[V], interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
