// Package assetcache implements a caching front for the static page shell.
//
// The worker mirrors a service-worker cache strategy: navigations are served
// network-first with the cached root document as offline fallback, and
// allow-listed static assets are served network-first with the cached copy as
// fallback. Two versioned named caches are used; stale versions are purged on
// activation.
package assetcache

import "sync"

// Entry is a cached response body with its content type.
type Entry struct {
	Body        []byte
	ContentType string
}

// Cache is a named in-memory response cache keyed by request path.
type Cache struct {
	name    string
	mu      sync.RWMutex
	entries map[string]Entry
}

func newCache(name string) *Cache {
	return &Cache{name: name, entries: make(map[string]Entry)}
}

// Name returns the cache name.
func (c *Cache) Name() string { return c.name }

// Get returns the cached entry for a path, if present.
func (c *Cache) Get(path string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[path]
	return entry, ok
}

// Put stores an entry for a path.
func (c *Cache) Put(path string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Storage holds all named caches, like the browser cache storage.
type Storage struct {
	mu     sync.RWMutex
	caches map[string]*Cache
}

// NewStorage creates an empty cache storage.
func NewStorage() *Storage {
	return &Storage{caches: make(map[string]*Cache)}
}

// Open returns the named cache, creating it if absent.
func (s *Storage) Open(name string) *Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.caches[name]; ok {
		return c
	}
	c := newCache(name)
	s.caches[name] = c
	return c
}

// Delete removes the named cache.
func (s *Storage) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.caches, name)
}

// Names returns the names of all open caches.
func (s *Storage) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	return names
}
