package pattern

import "sync"

// Cache memoises Parse by pattern string. The same literal is parsed once no
// matter how many episodes use it; syntax errors are memoised as well. A
// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	pattern *Pattern
	err     error
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
	}
}

// Parse returns the cached result for src, parsing it on first use.
// Concurrent first uses may parse twice; only the first result is kept.
func (c *Cache) Parse(src string) (*Pattern, error) {
	c.mu.RLock()
	e, ok := c.entries[src]
	c.mu.RUnlock()
	if ok {
		return e.pattern, e.err
	}

	p, err := Parse(src)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[src]; ok {
		return e.pattern, e.err
	}
	c.entries[src] = cacheEntry{pattern: p, err: err}
	return p, err
}

// Len returns the number of distinct pattern strings seen.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
