// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expand

import "sync"

// Cache maps a raw query to its expansion. Entries never expire.
type Cache interface {
	Get(query string) (string, bool)
	Put(query, expanded string)
	Clear()
	Len() int
}

// MemoryCache is an in-process Cache safe for concurrent use.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string]string)}
}

func (c *MemoryCache) Get(query string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[query]
	return v, ok
}

func (c *MemoryCache) Put(query, expanded string) {
	c.mu.Lock()
	c.m[query] = expanded
	c.mu.Unlock()
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.m = make(map[string]string)
	c.mu.Unlock()
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
