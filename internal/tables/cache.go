package tables

import "sync"

type cacheKey struct {
	category, name, language string
}

// CachingStore memoises lookups of an underlying store until Invalidate.
// Errors are not cached.
type CachingStore struct {
	store Store

	mu      sync.RWMutex
	entries map[cacheKey][]string
}

// NewCachingStore wraps store.
func NewCachingStore(store Store) *CachingStore {
	return &CachingStore{
		store:   store,
		entries: make(map[cacheKey][]string),
	}
}

// Table returns the cached table or asks the underlying store.
func (c *CachingStore) Table(category, name, language string) ([]string, error) {
	key := cacheKey{category, name, language}

	c.mu.RLock()
	list, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return list, nil
	}

	list, err := c.store.Table(category, name, language)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = list
	c.mu.Unlock()
	return list, nil
}

// Invalidate drops every cached table.
func (c *CachingStore) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[cacheKey][]string)
	c.mu.Unlock()
}

// Len returns the number of cached tables.
func (c *CachingStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
