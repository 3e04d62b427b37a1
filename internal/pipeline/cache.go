package pipeline

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/connoction/outreach-cli/internal/model"
)

// DefaultCacheCapacity bounds the extraction cache entry count.
const DefaultCacheCapacity = 50

// fingerprintLen is the truncated digest length used in cache keys.
// Collisions are acceptable: this is a cache key, not a security boundary.
const fingerprintLen = 12

// CacheKey derives the cache key for an (identity, raw source text)
// pair: the identity plus a short deterministic fingerprint of the text.
func CacheKey(identity, rawText string) string {
	sum := sha256.Sum256([]byte(rawText))
	return identity + ":" + hex.EncodeToString(sum[:])[:fingerprintLen]
}

type cacheEntry struct {
	key     string
	profile model.Profile
}

// ExtractionCache maps (identity, fingerprint) keys to previously
// extracted profiles so repeat requests for identical input skip the
// extraction call. Bounded: at capacity the single oldest-inserted
// entry is evicted (insertion order, not access order; no TTL).
// Safe for concurrent use; constructed once at process start and passed
// by reference so tests can substitute their own instance.
type ExtractionCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front = oldest inserted
	entries  map[string]*list.Element
}

// NewExtractionCache creates a cache holding at most capacity entries.
// Non-positive capacities fall back to DefaultCacheCapacity.
func NewExtractionCache(capacity int) *ExtractionCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ExtractionCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the cached profile for key, if present. A hit does not
// affect eviction order.
func (c *ExtractionCache) Get(key string) (model.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return model.Profile{}, false
	}
	return elem.Value.(cacheEntry).profile, true
}

// Put stores a profile under key. Entries are never mutated: a Put for
// an existing key is a no-op. At capacity the oldest-inserted entry is
// evicted first.
func (c *ExtractionCache) Put(key string, profile model.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(cacheEntry).key)
	}

	c.entries[key] = c.order.PushBack(cacheEntry{key: key, profile: profile})
}

// Len returns the current entry count.
func (c *ExtractionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
