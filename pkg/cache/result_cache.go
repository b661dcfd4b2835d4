// Package cache provides reasoner result caching for ontomod.
//
// Reasoner queries are expensive and the consolidation pipeline asks the same
// questions repeatedly (direct superclasses during generation, again during
// redundant-subsumption pruning, all superclasses when expanding excluded
// types). ResultCache memoizes those answers per ontology revision: an entry
// computed against an older revision is never returned.
//
// Features:
// - LRU eviction for bounded memory
// - Revision stamping for results that outlive an ontology change
// - Optional TTL expiration
// - Hit, miss and stale statistics
//
// Usage:
//
//	c := cache.NewResultCache(10000, 0)
//
//	key := cache.Key("superclasses", iri, "direct")
//	rev := ont.ClosureRevision()
//	if v, ok := c.Get(key, rev); ok {
//		return v.(owl.EntitySet), nil
//	}
//	result := compute()
//	c.Put(key, rev, result)
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// DefaultSize is the capacity used when NewResultCache is given none.
const DefaultSize = 1000

// Key joins a query name and its arguments into a cache key. Parts are
// NUL-separated so that ("ab", "c") and ("a", "bc") differ.
func Key(query string, args ...string) string {
	if len(args) == 0 {
		return query
	}
	return query + "\x00" + strings.Join(args, "\x00")
}

// ResultCache is a thread-safe LRU cache of query results stamped with the
// revision they were computed at.
type ResultCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration

	order   *list.List // front is most recently used
	entries map[string]*list.Element

	stats Stats
}

type entry struct {
	key       string
	revision  uint64
	value     any
	expiresAt time.Time
}

// Stats holds cache performance statistics.
type Stats struct {
	Size    int    // current number of entries
	MaxSize int    // capacity
	Hits    uint64 // lookups answered from the cache
	Misses  uint64 // lookups that found nothing usable
	Stale   uint64 // misses caused by an older revision or an expired TTL
	Evicted uint64 // entries dropped to make room
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// NewResultCache creates a cache holding at most maxSize results. A
// non-positive maxSize means DefaultSize; a zero ttl means results only
// expire with their revision.
func NewResultCache(maxSize int, ttl time.Duration) *ResultCache {
	if maxSize <= 0 {
		maxSize = DefaultSize
	}
	return &ResultCache{
		maxSize: maxSize,
		ttl:     ttl,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get returns the result stored under key if it was computed at revision and
// has not expired. Stale entries are dropped.
func (c *ResultCache) Get(key string, revision uint64) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	e := elem.Value.(*entry)
	if e.revision != revision || (c.ttl > 0 && time.Now().After(e.expiresAt)) {
		c.remove(elem)
		c.stats.Misses++
		c.stats.Stale++
		return nil, false
	}
	c.order.MoveToFront(elem)
	c.stats.Hits++
	return e.value, true
}

// Put stores value under key for revision, replacing any previous result and
// evicting the least recently used entry when full.
func (c *ResultCache) Put(key string, revision uint64, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		e.revision, e.value, e.expiresAt = revision, value, expiresAt
		c.order.MoveToFront(elem)
		return
	}

	for c.order.Len() >= c.maxSize {
		c.remove(c.order.Back())
		c.stats.Evicted++
	}
	c.entries[key] = c.order.PushFront(&entry{key: key, revision: revision, value: value, expiresAt: expiresAt})
}

// Clear removes every entry. Statistics are kept.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the statistics.
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Size = c.order.Len()
	s.MaxSize = c.maxSize
	return s
}

// remove drops elem. Caller must hold the lock.
func (c *ResultCache) remove(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*entry).key)
}
