package feed

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// CacheEntry is a memoized response video lookup.
type CacheEntry struct {
	URL       string
	Thumbnail string
	Loading   bool
	Err       error

	version int
}

// Usable reports whether the entry can answer a lookup without a network
// call.
func (e CacheEntry) Usable() bool {
	return !e.Loading && e.Err == nil && e.URL != ""
}

// Cache memoizes response video lookups by response hash for the lifetime
// of a session. Lookups for the same hash that overlap share one flight.
type Cache struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
	next    int
	group   singleflight.Group
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]CacheEntry)}
}

// Get returns the entry for hash.
func (c *Cache) Get(hash string) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[hash]
	return e, ok
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// begin marks hash as loading and returns the write version for the
// lookup. A finished entry keeps its data while loading.
func (c *Cache) begin(hash string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	e := c.entries[hash]
	e.Loading = true
	e.version = c.next
	c.entries[hash] = e
	return c.next
}

// finish stores the result of the lookup started with version. Results
// older than the stored entry are dropped so a slow lookup cannot
// overwrite a newer result.
func (c *Cache) finish(hash string, version int, e CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.entries[hash]
	if ok && cur.version > version {
		if !cur.Loading {
			return
		}
		// A newer lookup is still running: record this result but leave
		// the newer lookup's version in place.
		e.Loading = true
		e.version = cur.version
		c.entries[hash] = e
		return
	}
	e.Loading = false
	e.version = version
	c.entries[hash] = e
}

// Do runs fn for hash unless a usable entry exists, sharing the call with
// any concurrent lookup of the same hash. It reports whether the result
// came from the cache.
func (c *Cache) Do(hash string, fn func() (CacheEntry, error)) (CacheEntry, bool, error) {
	if e, ok := c.Get(hash); ok && e.Usable() {
		return e, true, nil
	}
	v, err, _ := c.group.Do(hash, func() (any, error) {
		version := c.begin(hash)
		e, err := fn()
		if err != nil {
			e = CacheEntry{Err: err}
		}
		c.finish(hash, version, e)
		return e, err
	})
	return v.(CacheEntry), false, err
}
