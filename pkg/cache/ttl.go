package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/caiomioto2/workshop-athena-checkout/pkg/logger"
)

// TTLCache is a bounded map with per-entry expiry. It backs webhook
// dedupe, where the interesting property is "have I seen this key
// recently", so eviction when full removes the entry closest to
// expiring rather than tracking recency of use.
type TTLCache[K comparable, V any] struct {
	entries map[K]*entry[V]
	mutex   sync.Mutex
	log     logger.Logger

	capacity        int
	cleanupInterval time.Duration
	cleanupStop     chan struct{}
}

type entry[V any] struct {
	value   V
	expires time.Time
}

func NewTTLCache[K comparable, V any](
	capacity int,
	log logger.Logger,
) (*TTLCache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache.NewTTLCache: capacity must be positive, got %d", capacity)
	}

	return &TTLCache[K, V]{
		capacity: capacity,
		entries:  make(map[K]*entry[V]),
		log:      log,
	}, nil
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V

	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(c.entries, key)
		return zero, false
	}

	return e.value, true
}

func (c *TTLCache[K, V]) Put(key K, value V, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.capacity {
		c.evictSoonest()
	}

	c.entries[key] = &entry[V]{value: value, expires: expires}
}

func (c *TTLCache[K, V]) Has(key K) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	return e.expires.IsZero() || time.Now().Before(e.expires)
}

func (c *TTLCache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.entries)
}

func (c *TTLCache[K, V]) Capacity() int {
	return c.capacity
}

func (c *TTLCache[K, V]) Purge() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	clear(c.entries)
}

func (c *TTLCache[K, V]) StartCleanup(interval time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.cleanupStop != nil {
		close(c.cleanupStop)
	}

	c.cleanupInterval = interval
	c.cleanupStop = make(chan struct{})
	go c.runCleanup(c.cleanupStop)
}

func (c *TTLCache[K, V]) StopCleanup() {
	c.mutex.Lock()
	if c.cleanupStop != nil {
		close(c.cleanupStop)
		c.cleanupStop = nil
	}
	c.mutex.Unlock()
}

func (c *TTLCache[K, V]) runCleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-stop:
			return
		}
	}
}

func (c *TTLCache[K, V]) cleanupExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	removed := 0

	for key, e := range c.entries {
		if e.expires.IsZero() {
			continue
		}
		if now.After(e.expires) {
			delete(c.entries, key)
			removed++
		}
	}

	if removed > 0 {
		c.log.Infow("cache cleanup completed",
			"removed", removed,
			"remaining", len(c.entries),
		)
	}
}

// evictSoonest drops the entry with the nearest expiry. Entries
// without expiry are treated as expiring last. Caller holds the lock.
func (c *TTLCache[K, V]) evictSoonest() {
	var (
		victim   K
		found    bool
		earliest time.Time
	)

	for key, e := range c.entries {
		if e.expires.IsZero() {
			continue
		}
		if !found || e.expires.Before(earliest) {
			victim = key
			earliest = e.expires
			found = true
		}
	}

	if !found {
		// Only permanent entries left; drop an arbitrary one.
		for key := range c.entries {
			victim = key
			found = true
			break
		}
	}

	if found {
		delete(c.entries, victim)
	}
}
