// Package cache provides a size- and time-bounded in-memory cache with
// single-flight loading. Two independently configured instances sit in front
// of QR rendering and geolocation lookups.
package cache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Policy selects when an entry's expiry clock resets.
type Policy int

const (
	// ExpireAfterAccess evicts entries idle for the configured duration
	// (time-to-idle): every hit resets the clock.
	ExpireAfterAccess Policy = iota
	// ExpireAfterWrite evicts entries a fixed duration after insertion
	// (time-to-live), regardless of access pattern.
	ExpireAfterWrite
)

// Config bounds a cache instance.
type Config struct {
	// MaxEntries caps the number of live entries; the least recently used
	// entry is dropped once the cap is exceeded. Zero or negative means 100.
	MaxEntries int
	// Expiry is the time-to-idle or time-to-live window depending on Policy.
	// Zero disables time-based eviction.
	Expiry time.Duration
	// Policy selects between access and write expiry.
	Policy Policy
}

const defaultMaxEntries = 100

type entry[K comparable, V any] struct {
	key   K
	value V
	stamp time.Time
	elem  *list.Element
}

// Cache memoizes expensive computations per key. An expired entry is treated
// as absent, and a failed computation is never stored.
type Cache[K comparable, V any] struct {
	cfg   Config
	group singleflight.Group

	mu    sync.Mutex
	items map[K]*entry[K, V]
	order *list.List // front = most recently used

	now func() time.Time
}

// New creates a cache with the given bounds.
func New[K comparable, V any](cfg Config) *Cache[K, V] {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = defaultMaxEntries
	}

	return &Cache[K, V]{
		cfg:   cfg,
		items: make(map[K]*entry[K, V]),
		order: list.New(),
		now:   time.Now,
	}
}

// Get returns the cached value for key, computing and storing it on a miss.
// Concurrent callers for the same missing key share a single computation and
// all receive its result; callers for other keys are never delayed. Compute
// errors are returned to every waiting caller and nothing is cached.
func (c *Cache[K, V]) Get(ctx context.Context, key K, compute func(ctx context.Context) (V, error)) (V, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(fmt.Sprint(key), func() (any, error) {
		// A previous flight may have filled the entry while we queued.
		if v, ok := c.lookup(key); ok {
			return v, nil
		}

		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		c.store(key, v)

		return v, nil
	})
	if err != nil {
		var zero V

		return zero, err
	}

	return v.(V), nil
}

// Len returns the number of live entries, counting expired ones that have
// not been touched since expiring.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

func (c *Cache[K, V]) lookup(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		var zero V

		return zero, false
	}

	if c.cfg.Expiry > 0 && c.now().Sub(it.stamp) >= c.cfg.Expiry {
		c.order.Remove(it.elem)
		delete(c.items, key)

		var zero V

		return zero, false
	}

	if c.cfg.Policy == ExpireAfterAccess {
		it.stamp = c.now()
	}

	c.order.MoveToFront(it.elem)

	return it.value, true
}

func (c *Cache[K, V]) store(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.items[key]; ok {
		it.value = value
		it.stamp = c.now()
		c.order.MoveToFront(it.elem)

		return
	}

	it := &entry[K, V]{key: key, value: value, stamp: c.now()}
	it.elem = c.order.PushFront(it)
	c.items[key] = it

	for len(c.items) > c.cfg.MaxEntries {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}

		evicted := oldest.Value.(*entry[K, V])
		c.order.Remove(oldest)
		delete(c.items, evicted.key)
	}
}
