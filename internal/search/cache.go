package search

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pricescout/pricescout/internal/model"
)

// responseCache memoizes backend responses for a short window. Entries past
// their TTL are treated as absent and evicted lazily on access; the cache is
// bounded, evicting the oldest entry once full.
type responseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]cacheEntry
}

type cacheEntry struct {
	result   *model.CompareResult
	storedAt time.Time
}

func newResponseCache(ttl time.Duration, max int) *responseCache {
	return &responseCache{
		ttl:     ttl,
		max:     max,
		entries: make(map[string]cacheEntry),
	}
}

// cacheKey normalizes a query for lookup. Different actions never share
// entries.
func cacheKey(action, query string) string {
	return action + "|" + strings.ToLower(strings.TrimSpace(query))
}

func (c *responseCache) get(key string) (*model.CompareResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

func (c *responseCache) set(key string, result *model.CompareResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.max {
		c.evictOldestLocked()
	}
	c.entries[key] = cacheEntry{result: result, storedAt: time.Now()}
}

// evictOldestLocked removes the entry with the earliest store time. Caller
// holds the lock.
func (c *responseCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		zap.L().Debug("cache full, evicted oldest entry", zap.String("key", oldestKey))
	}
}

func (c *responseCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
