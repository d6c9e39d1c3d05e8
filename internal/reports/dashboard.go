package reports

import (
	"sync"
	"time"
)

// summaryCache is a TTL cache for dashboard aggregates. Guarded by an
// RWMutex; reads vastly outnumber refreshes.
type summaryCache struct {
	data map[string]*cacheEntry
	ttl  time.Duration
	mu   sync.RWMutex
}

type cacheEntry struct {
	value      *DashboardSummary
	expiration time.Time
}

func newSummaryCache(ttl time.Duration) *summaryCache {
	return &summaryCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}
}

func (c *summaryCache) Get(key string) (*DashboardSummary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || time.Now().After(entry.expiration) {
		return nil, false
	}
	return entry.value, true
}

func (c *summaryCache) Set(key string, value *DashboardSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = &cacheEntry{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

func (c *summaryCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}
