package cache

import (
	"sync"
	"testing"

	"github.com/couchcryptid/navwarn-etl/internal/domain"
	"github.com/couchcryptid/navwarn-etl/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingParser struct {
	mu    sync.Mutex
	calls int
}

func (m *countingParser) ParseMemorandum(name, _ string) []domain.WarningRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return []domain.WarningRecord{{ID: name + "-1", NavArea: "HYDROPAC"}}
}

// --- CachedParser tests ---

func TestCachedParser_CacheHit(t *testing.T) {
	inner := &countingParser{}
	cached := NewCachedParser(inner, 10, observability.NewMetricsForTesting())

	r1 := cached.ParseMemorandum("HYDROPAC", "HYDROPAC 1001/24.")
	r2 := cached.ParseMemorandum("HYDROPAC", "HYDROPAC 1001/24.")

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.Equal(t, 1, cached.Len())
}

func TestCachedParser_DifferentTextMisses(t *testing.T) {
	inner := &countingParser{}
	cached := NewCachedParser(inner, 10, observability.NewMetricsForTesting())

	cached.ParseMemorandum("HYDROPAC", "HYDROPAC 1001/24.")
	cached.ParseMemorandum("HYDROPAC", "HYDROPAC 1002/24.")
	cached.ParseMemorandum("NAVAREA IV", "HYDROPAC 1002/24.")

	assert.Equal(t, 3, inner.calls)
}

func TestCachedParser_CallersCannotCorruptEntry(t *testing.T) {
	cached := NewCachedParser(&countingParser{}, 10, observability.NewMetricsForTesting())

	first := cached.ParseMemorandum("HYDROPAC", "text")
	first[0].Cancelled = true

	second := cached.ParseMemorandum("HYDROPAC", "text")
	require.Len(t, second, 1)
	assert.False(t, second[0].Cancelled)
}

func TestCachedParser_RealParser(t *testing.T) {
	cached := NewCachedParser(domain.NewParser(), 4, observability.NewMetricsForTesting())
	text := "HYDROPAC 1001/24(61).\nDERELICT VESSEL IN 12-00.00N 115-00.00E."

	records := cached.ParseMemorandum("HYDROPAC", text)
	require.Len(t, records, 1)
	assert.Equal(t, records, cached.ParseMemorandum("HYDROPAC", text))
}

// --- LRU cache unit tests ---

func warnings(id string) []domain.WarningRecord {
	return []domain.WarningRecord{{ID: id}}
}

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache[string, []domain.WarningRecord](3)

	c.put("a", warnings("A"))
	c.put("b", warnings("B"))

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", result[0].ID)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[string, []domain.WarningRecord](2)

	c.put("a", warnings("A"))
	c.put("b", warnings("B"))
	c.put("c", warnings("C")) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, "B", result[0].ID)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, "C", result[0].ID)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache[string, []domain.WarningRecord](2)

	c.put("a", warnings("A"))
	c.put("b", warnings("B"))

	c.get("a")

	// "b" is now least recently used.
	c.put("c", warnings("C"))

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[string, []domain.WarningRecord](2)

	c.put("a", warnings("A1"))
	c.put("a", warnings("A2"))

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, "A2", result[0].ID)
}
