package cache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/couchcryptid/navwarn-etl/internal/domain"
	"github.com/couchcryptid/navwarn-etl/internal/observability"
)

// CachedParser wraps a MemorandumParser with an in-memory LRU cache keyed
// by memorandum content. The collector republishes the same daily bulletin
// many times, and parsing is deterministic in name and text.
type CachedParser struct {
	inner   domain.MemorandumParser
	cache   *lruCache[string, []domain.WarningRecord]
	metrics *observability.Metrics
}

// NewCachedParser creates a cache decorator around a parser.
func NewCachedParser(inner domain.MemorandumParser, maxEntries int, metrics *observability.Metrics) *CachedParser {
	return &CachedParser{
		inner:   inner,
		cache:   newLRUCache[string, []domain.WarningRecord](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedParser) ParseMemorandum(name, text string) []domain.WarningRecord {
	key := cacheKey(name, text)
	if records, ok := c.cache.get(key); ok {
		c.metrics.ParseCache.WithLabelValues("hit").Inc()
		return cloneRecords(records)
	}
	c.metrics.ParseCache.WithLabelValues("miss").Inc()

	records := c.inner.ParseMemorandum(name, text)
	c.cache.put(key, cloneRecords(records))
	return records
}

// Len returns the number of cached memorandums.
func (c *CachedParser) Len() int {
	return c.cache.len()
}

func cacheKey(name, text string) string {
	sum := sha256.Sum256([]byte(name + "|" + text))
	return hex.EncodeToString(sum[:])
}

// cloneRecords copies the slice so callers can reassign fields without
// touching the cached entry.
func cloneRecords(records []domain.WarningRecord) []domain.WarningRecord {
	return append([]domain.WarningRecord(nil), records...)
}
