package queryplanner

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/sourcelens/engine/internal/codeintel"
)

// resultCacheEntry pairs a cached response with the time it was computed,
// so TTL expiry can be checked on lookup.
type resultCacheEntry struct {
	results    []codeintel.SearchResult
	computedAt time.Time
}

// resultCache maps a query digest to its cached results. Invalidated
// wholesale whenever any indexed file is modified through the refactoring
// engine or externally signaled (spec section 4.3).
type resultCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]resultCacheEntry
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{ttl: ttl, entries: make(map[string]resultCacheEntry)}
}

func digest(q codeintel.Query) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%v|%s|%+v|%v|%d", q.Kind, q.Name, q.SymbolKind, q.Text, q.Filters, q.Scope, q.ContextLines)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *resultCache) get(q codeintel.Query) ([]codeintel.SearchResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[digest(q)]
	if !ok {
		return nil, false
	}
	if time.Since(e.computedAt) > c.ttl {
		return nil, false
	}
	return e.results, true
}

func (c *resultCache) put(q codeintel.Query, results []codeintel.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[digest(q)] = resultCacheEntry{results: results, computedAt: time.Now()}
}

// invalidateAll drops every cached entry - called whenever a file is
// modified through the refactoring engine or an external change signal.
func (c *resultCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]resultCacheEntry)
}
