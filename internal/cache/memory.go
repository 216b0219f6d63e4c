package cache

import (
	"sync"
	"time"

	"github.com/rohmanhakim/review-parser/internal/extractor"
)

// MemoryCache is an in-memory implementation of the Cache interface.
// It uses a map for storage and provides thread-safe operations via a mutex.
//
// Entries expire after a period without access: every Get hit and every Put
// of a key restarts its idle clock. Expired entries are dropped lazily, by
// the Get that finds them expired.
//
// The cache is bounded. When an insert pushes it past maxEntries, the least
// recently accessed entries are evicted until it fits. The cache lives only
// for the lifetime of the process (no persistence).
type MemoryCache struct {
	mu          sync.Mutex
	maxEntries  int
	expireAfter time.Duration
	now         func() time.Time
	entries     map[string]*entry
}

type entry struct {
	value      extractor.Result
	lastAccess time.Time
}

// NewMemoryCache creates a new in-memory cache instance.
// maxEntries bounds the number of live entries; expireAfter is the idle
// time after which an unaccessed entry stops counting as cached.
func NewMemoryCache(maxEntries int, expireAfter time.Duration) *MemoryCache {
	return NewMemoryCacheWithClock(maxEntries, expireAfter, time.Now)
}

// NewMemoryCacheWithClock creates a MemoryCache with an injected clock.
// Tests use it to step time deterministically.
func NewMemoryCacheWithClock(
	maxEntries int,
	expireAfter time.Duration,
	now func() time.Time,
) *MemoryCache {
	return &MemoryCache{
		maxEntries:  maxEntries,
		expireAfter: expireAfter,
		now:         now,
		entries:     make(map[string]*entry),
	}
}

// Get retrieves the parsed result for a domain key.
// A hit restarts the entry's idle clock, so a result stays cached as long
// as it keeps being asked for. An entry whose idle clock has run out is
// dropped here and reported as a miss.
//
// Get takes the write lock: even a hit mutates access state.
func (c *MemoryCache) Get(key string) (extractor.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key]
	if !exists {
		return extractor.Result{}, false
	}

	currentTime := c.now()
	if currentTime.Sub(e.lastAccess) > c.expireAfter {
		delete(c.entries, key)
		return extractor.Result{}, false
	}

	e.lastAccess = currentTime
	return e.value, true
}

// Put stores the parsed result for a domain key.
// If the key already exists, the value is overwritten and its idle clock
// restarted. When the insert pushes the cache past its bound, the least
// recently accessed entries are evicted until it fits.
func (c *MemoryCache) Put(key string, value extractor.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		value:      value,
		lastAccess: c.now(),
	}

	for len(c.entries) > c.maxEntries {
		c.evictOldest()
	}
}

// evictOldest removes the entry with the oldest access time.
// Callers must hold mu.
func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestAccess time.Time

	first := true
	for key, e := range c.entries {
		if first || e.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = e.lastAccess
			first = false
		}
	}

	delete(c.entries, oldestKey)
}

// Clear removes all entries from the cache.
// This method is primarily useful for testing.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
}

// Size returns the number of resident entries. Entries whose idle clock
// has run out but which no Get has dropped yet still count.
// This method is primarily useful for testing and diagnostics.
func (c *MemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
