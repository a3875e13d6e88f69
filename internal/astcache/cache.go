// Package astcache implements the bounded (LRU + TTL) map from
// (content fingerprint, language) to a parsed AST described in spec
// section 4.2. Eviction combines per-tier capacity with a per-tier TTL that
// resets on access.
package astcache

import (
	"container/list"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/sourcelens/engine/internal/codeintel"
)

// Fingerprint is the non-cryptographic 64-bit hash of a file's source
// bytes. Collisions return the cached entry for the colliding key - an
// accepted, documented imprecision (spec section 4.2).
type Fingerprint uint64

func Fingerprint64(source []byte) Fingerprint {
	return Fingerprint(xxhash.Sum64(source))
}

type cacheKey struct {
	fp   Fingerprint
	lang codeintel.Language
}

type entry struct {
	key      cacheKey
	ast      *codeintel.ParsedAst
	expireAt time.Time
}

// Cache is the many-reader, one-writer AST cache. Inserts and evictions are
// serialized behind mu; reads take the same mutex because the LRU touch on
// every Get is itself a write to the eviction list - true multi-reader
// concurrency is provided by sharding across multiple Cache instances if a
// caller needs it (the teacher's own LRUCache in internal/semantic takes
// the identical single-mutex approach for the same reason).
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[cacheKey]*list.Element
	order    *list.List

	hits, misses, evictions int64
}

// Tier capacities/TTLs from spec section 4.2 and the intelligence_tier
// config bundle.
const (
	TierLightCapacity  = 100
	TierMediumCapacity = 500
	TierHardCapacity   = 2000

	TierLightTTL  = 5 * time.Minute
	TierMediumTTL = 15 * time.Minute
	TierHardTTL   = 30 * time.Minute
)

func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = TierMediumCapacity
	}
	if ttl <= 0 {
		ttl = TierMediumTTL
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[cacheKey]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached AST for (fingerprint, lang) unless it has expired,
// in which case the entry is removed first and a miss is reported - a
// reader never observes a torn or expired entry.
func (c *Cache) Get(fp Fingerprint, lang codeintel.Language) (*codeintel.ParsedAst, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{fp: fp, lang: lang}
	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	e := elem.Value.(*entry)
	if time.Now().After(e.expireAt) {
		c.removeLocked(elem)
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(elem)
	e.expireAt = time.Now().Add(c.ttl)
	c.hits++
	return e.ast, true
}

// Put inserts or replaces the entry for (fingerprint, lang).
func (c *Cache) Put(fp Fingerprint, lang codeintel.Language, ast *codeintel.ParsedAst) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{fp: fp, lang: lang}
	if elem, ok := c.items[key]; ok {
		elem.Value.(*entry).ast = ast
		elem.Value.(*entry).expireAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(elem)
		return
	}

	e := &entry{key: key, ast: ast, expireAt: time.Now().Add(c.ttl)}
	elem := c.order.PushFront(e)
	c.items[key] = elem

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.removeLocked(oldest)
			c.evictions++
		}
	}
}

func (c *Cache) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	if e.ast != nil {
		e.ast.Close()
	}
	c.order.Remove(elem)
	delete(c.items, e.key)
}

// Len reports the current entry count, mainly for tests and diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats reports cumulative hit/miss/eviction counters.
func (c *Cache) Stats() (hits, misses, evictions int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.evictions
}

// Clear empties the cache, closing every retained AST.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for e := c.order.Front(); e != nil; e = e.Next() {
		if ast := e.Value.(*entry).ast; ast != nil {
			ast.Close()
		}
	}
	c.items = make(map[cacheKey]*list.Element)
	c.order = list.New()
}
