package report

import (
	"sync"
	"time"

	"github.com/agrifog/agrimind/internal/model"
)

// DefaultCacheTTL is how long a computed report stays valid without fresh
// data.
const DefaultCacheTTL = time.Minute

type cacheEntry struct {
	report     model.Report
	computedAt time.Time
}

// MemoryCache is the in-process DecisionCache. Per-key operations are atomic
// under one mutex; farms are independent so there is nothing finer to lock.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *MemoryCache) Get(farmID string) (model.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[farmID]
	if !ok {
		return model.Report{}, false
	}
	if c.now().Sub(e.computedAt) >= c.ttl {
		delete(c.entries, farmID)
		return model.Report{}, false
	}
	return e.report, true
}

func (c *MemoryCache) Set(farmID string, r model.Report) {
	c.mu.Lock()
	c.entries[farmID] = cacheEntry{report: r, computedAt: c.now()}
	c.mu.Unlock()
}

func (c *MemoryCache) Invalidate(farmID string) {
	c.mu.Lock()
	delete(c.entries, farmID)
	c.mu.Unlock()
}
