package currency

import (
	"sync"
	"time"
)

type cacheEntry struct {
	rate     float64
	cachedAt time.Time
}

// RateCache is a TTL cache for exchange rates, keyed by "FROM-TO". It is
// injected into the conversion service so its lifetime and contents can
// be controlled in tests.
type RateCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func NewRateCache(ttl time.Duration) *RateCache {
	return &RateCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached rate when the entry is younger than the TTL.
func (c *RateCache) Get(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.cachedAt) >= c.ttl {
		return 0, false
	}
	return entry.rate, true
}

func (c *RateCache) Set(key string, rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{rate: rate, cachedAt: time.Now()}
}
