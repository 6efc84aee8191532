// Package ttlcache wraps an expiring LRU into the small get/set surface the
// addon's caches need. Entries expire after a fixed TTL and the least
// recently used entry is evicted once capacity is reached.
package ttlcache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a bounded in-memory TTL cache, safe for concurrent use.
type Cache[V any] struct {
	lru     *expirable.LRU[string, V]
	maxSize int
	ttl     time.Duration
}

// New creates a cache holding at most size entries for at most ttl each.
func New[V any](size int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		lru:     expirable.NewLRU[string, V](size, nil, ttl),
		maxSize: size,
		ttl:     ttl,
	}
}

// Get returns the cached value and whether it was present and unexpired.
// A present zero value is a real hit, which is how confirmed-negative
// lookups are remembered.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// Set stores a value under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

// Len is the current number of unexpired entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// MaxSize is the configured capacity bound.
func (c *Cache[V]) MaxSize() int {
	return c.maxSize
}

// TTL is the configured entry lifetime.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}
