package lru

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/haukened/rr-names/internal/names/domain"
	"github.com/haukened/rr-names/internal/names/repos/blacklist"
)

// decisionCache is an LRU-backed implementation of blacklist.DecisionCache.
// It tracks basic metrics: hits, misses, and evictions.
type decisionCache struct {
	lru       *lru.Cache[string, domain.Decision]
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// disabledCache is a no-op DecisionCache used when size <= 0.
type disabledCache struct{}

// New creates a new DecisionCache with the given capacity. If size <= 0, a
// disabled no-op cache is returned that always misses and tracks no metrics.
func New(size int) (blacklist.DecisionCache, error) {
	if size <= 0 {
		return disabledCache{}, nil
	}

	dc := &decisionCache{}
	// NewWithEvict observes capacity evictions.
	cache, err := lru.NewWithEvict(size, func(string, domain.Decision) {
		dc.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	dc.lru = cache
	return dc, nil
}

// Get looks up a decision by key. When found, increments hits; otherwise increments misses.
func (c *decisionCache) Get(key string) (domain.Decision, bool) {
	if val, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return val, true
	}
	c.misses.Add(1)
	return domain.Decision{}, false
}

// Put stores a decision by key.
func (c *decisionCache) Put(key string, d domain.Decision) {
	c.lru.Add(key, d)
}

// Len returns the number of entries in the cache.
func (c *decisionCache) Len() int { return c.lru.Len() }

// Stats returns cumulative hit/miss/eviction counters.
func (c *decisionCache) Stats() (hits, misses, evictions uint64) {
	return c.hits.Load(), c.misses.Load(), c.evictions.Load()
}

func (disabledCache) Get(string) (domain.Decision, bool) { return domain.Decision{}, false }

func (disabledCache) Put(string, domain.Decision) {}

func (disabledCache) Len() int { return 0 }

func (disabledCache) Stats() (uint64, uint64, uint64) { return 0, 0, 0 }

var _ blacklist.DecisionCache = (*decisionCache)(nil)
var _ blacklist.DecisionCache = disabledCache{}
