// Package routing implements the bounded-concurrency, cached, circuit-
// broken HTTP client that prices trip segments against walking and transit
// providers (spec §4.7). The cache, breaker, and limiter are process-wide
// singletons per spec §9 "Singletons", but are constructed explicitly and
// injected into Client so tests can use fresh instances.
package routing

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tripforge/planner/internal/model"
)

// cacheEntry pairs a cached cost with its expiry time.
type cacheEntry struct {
	cost     model.SegmentCost
	expires  time.Time
}

// Cache is the coordinate-keyed LRU+TTL segment cost cache (spec §4.7
// "Cache"). Keys round coordinates to 3 decimals (~100m), per the
// persisted wire contract in spec §6.
type Cache struct {
	mu    sync.Mutex
	lru   *lru.Cache[string, cacheEntry]
	ttl   time.Duration
}

// NewCache builds a cache with the given capacity and TTL, and starts a
// background sweep goroutine that evicts expired entries every interval.
// The sweep goroutine exits when stop is closed.
func NewCache(capacity int, ttl time.Duration, sweepInterval time.Duration, stop <-chan struct{}) *Cache {
	backing, err := lru.New[string, cacheEntry](capacity)
	if err != nil {
		// Capacity is validated by callers (process config defaults to 5000);
		// a construction error here means a programming mistake, not runtime input.
		panic(fmt.Sprintf("routing: invalid cache capacity: %v", err))
	}
	c := &Cache{lru: backing, ttl: ttl}
	go c.sweepLoop(sweepInterval, stop)
	return c
}

// CacheKey renders the persisted wire-contract key for a coordinate pair
// (spec §6 "Cache keying"): 3-decimal rounding, "latF,lngF:latT,lngT".
func CacheKey(from, to model.LatLng) string {
	return fmt.Sprintf("%.3f,%.3f:%.3f,%.3f", from.Lat, from.Lng, to.Lat, to.Lng)
}

// Get returns a copy of the cached cost for key, with SegmentKey rewritten
// to callerKey, or false if absent/expired.
func (c *Cache) Get(key string, callerKey model.SegmentKey) (model.SegmentCost, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(key)
	if !ok {
		return model.SegmentCost{}, false
	}
	if time.Now().After(entry.expires) {
		c.lru.Remove(key)
		return model.SegmentCost{}, false
	}
	cost := entry.cost
	cost.Key = callerKey
	return cost, true
}

// Set stores cost under key with a fresh TTL.
func (c *Cache) Set(key string, cost model.SegmentCost) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, cacheEntry{cost: cost, expires: time.Now().Add(c.ttl)})
}

// Has reports whether key is present and unexpired, without affecting recency.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.lru.Peek(key)
	if !ok {
		return false
	}
	return !time.Now().After(entry.expires)
}

func (c *Cache) sweepLoop(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for _, key := range c.lru.Keys() {
		entry, ok := c.lru.Peek(key)
		if ok && now.After(entry.expires) {
			c.lru.Remove(key)
		}
	}
}
