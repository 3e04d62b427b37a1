package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/connoction/outreach-cli/internal/model"
)

func TestCacheKey_Deterministic(t *testing.T) {
	a := CacheKey("https://linkedin.com/in/jane", "raw page text")
	b := CacheKey("https://linkedin.com/in/jane", "raw page text")
	assert.Equal(t, a, b)

	// Different text, different key.
	c := CacheKey("https://linkedin.com/in/jane", "raw page text v2")
	assert.NotEqual(t, a, c)

	// Different identity, different key.
	d := CacheKey("https://linkedin.com/in/john", "raw page text")
	assert.NotEqual(t, a, d)
}

func TestCache_RoundTrip(t *testing.T) {
	cache := NewExtractionCache(10)

	profile := model.Profile{
		Name:      "Jane Doe",
		Role:      "Engineer",
		Companies: []string{"Acme"},
	}
	key := CacheKey("https://linkedin.com/in/jane", "page")

	_, ok := cache.Get(key)
	assert.False(t, ok)

	cache.Put(key, profile)
	got, ok := cache.Get(key)
	assert.True(t, ok)
	assert.Equal(t, profile, got)
}

func TestCache_EvictsOldestInserted(t *testing.T) {
	cache := NewExtractionCache(50)

	for i := 0; i < 50; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), model.Profile{Name: fmt.Sprintf("p%d", i)})
	}
	assert.Equal(t, 50, cache.Len())

	// A hit on the oldest entry does not protect it.
	_, ok := cache.Get("key-0")
	assert.True(t, ok)

	// 51st insert evicts the oldest-inserted entry only.
	cache.Put("key-50", model.Profile{Name: "p50"})
	assert.Equal(t, 50, cache.Len())

	_, ok = cache.Get("key-0")
	assert.False(t, ok)
	_, ok = cache.Get("key-1")
	assert.True(t, ok)
	_, ok = cache.Get("key-50")
	assert.True(t, ok)
}

func TestCache_PutExistingKeyIsNoop(t *testing.T) {
	cache := NewExtractionCache(2)

	cache.Put("k", model.Profile{Name: "original"})
	cache.Put("k", model.Profile{Name: "replacement"})

	got, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "original", got.Name)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_DefaultCapacity(t *testing.T) {
	cache := NewExtractionCache(0)
	for i := 0; i < DefaultCacheCapacity+5; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), model.Profile{})
	}
	assert.Equal(t, DefaultCacheCapacity, cache.Len())
}
