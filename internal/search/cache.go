package search

import "sync"

// DefaultCacheCapacity bounds the comparison cache when no capacity is
// configured.
const DefaultCacheCapacity = 20

// ComparisonCache is a bounded cache of per-strategy result sets keyed by
// query, used to avoid re-running three-strategy comparisons.
//
// Eviction is FIFO over insertion order, not LRU: reading an entry never
// refreshes it, and updating an existing key keeps its original position.
// That is cheaper than true LRU and matches how comparisons are actually
// repeated in practice.
type ComparisonCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]map[Strategy][]Hit
	order    []string
}

// NewComparisonCache creates a cache holding at most capacity queries.
// Non-positive capacities fall back to DefaultCacheCapacity.
func NewComparisonCache(capacity int) *ComparisonCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ComparisonCache{
		capacity: capacity,
		entries:  make(map[string]map[Strategy][]Hit, capacity),
	}
}

// Get returns the cached per-strategy results for query, if present.
func (c *ComparisonCache) Get(query string) (map[Strategy][]Hit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	results, ok := c.entries[query]
	return results, ok
}

// Put stores results for query. Inserting a new key at capacity evicts the
// oldest-inserted entry; updating an existing key evicts nothing.
func (c *ComparisonCache) Put(query string, results map[Strategy][]Hit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[query]; exists {
		c.entries[query] = results
		return
	}

	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[query] = results
	c.order = append(c.order, query)
}

// Len returns the current number of cached queries.
func (c *ComparisonCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops all cached entries.
func (c *ComparisonCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]map[Strategy][]Hit, c.capacity)
	c.order = nil
}
