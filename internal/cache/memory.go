package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the fast layer: rendered reports held in process memory
// until go-cache's janitor evicts them.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache builds the memory layer. Entries written with a zero TTL
// use defaultTTL; the janitor sweeps on cleanupInterval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the cached report for key, if present and unexpired.
func (m *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := m.store.Get(key)
	if !found {
		return nil, false
	}
	report, ok := val.([]byte)
	return report, ok
}

// Set stores a report under key. go-cache treats a zero ttl as the
// configured default.
func (m *MemoryCache) Set(key string, report []byte, ttl time.Duration) error {
	m.store.Set(key, report, ttl)
	return nil
}

// Delete drops the entry for key.
func (m *MemoryCache) Delete(key string) error {
	m.store.Delete(key)
	return nil
}

// Clear drops every entry.
func (m *MemoryCache) Clear() error {
	m.store.Flush()
	return nil
}
