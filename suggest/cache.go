package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache wraps a provider and remembers successful lookups for a time. Query
// text is compared case-insensitively, matching the provider contract. It is
// safe for concurrent use.
type Cache struct {
	p   Provider
	ttl time.Duration
	max int
	now func() time.Time

	mu      sync.Mutex
	entries map[uint64]cacheEntry
}

type cacheEntry struct {
	query   string
	list    []Suggestion
	expires time.Time
}

// NewCache creates a cache in front of p. Entries expire after ttl. At most
// max entries are held; a non-positive max means 128.
func NewCache(p Provider, ttl time.Duration, max int) *Cache {
	if max <= 0 {
		max = 128
	}
	return &Cache{
		p:       p,
		ttl:     ttl,
		max:     max,
		now:     time.Now,
		entries: make(map[uint64]cacheEntry),
	}
}

// Lookup returns cached suggestions for query, or looks them up with the
// underlying provider. Failed lookups are not cached.
func (c *Cache) Lookup(ctx context.Context, query string) ([]Suggestion, error) {
	q := strings.ToLower(query)
	k := xxhash.Sum64String(q)
	c.mu.Lock()
	e, ok := c.entries[k]
	if ok && e.query == q && c.now().Before(e.expires) {
		c.mu.Unlock()
		return append([]Suggestion(nil), e.list...), nil
	}
	c.mu.Unlock()

	list, err := c.p.Lookup(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[k]; !ok && len(c.entries) >= c.max {
		c.evict()
	}
	c.entries[k] = cacheEntry{
		query:   q,
		list:    append([]Suggestion(nil), list...),
		expires: c.now().Add(c.ttl),
	}
	return list, nil
}

// Len returns the number of cached entries, including expired ones that have
// not yet been evicted.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evict removes expired entries, or the entry closest to expiring if none
// have expired. c.mu must be held.
func (c *Cache) evict() {
	now := c.now()
	var (
		oldest uint64
		at     time.Time
		found  bool
	)
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			continue
		}
		if !found || e.expires.Before(at) {
			oldest, at, found = k, e.expires, true
		}
	}
	if len(c.entries) >= c.max && found {
		delete(c.entries, oldest)
	}
}
