// Package index keeps the latest version of every active warning in an
// in-memory R-tree keyed by geometry bounding boxes.
package index

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/couchcryptid/navwarn-etl/internal/domain"
	"github.com/couchcryptid/navwarn-etl/internal/observability"
	"github.com/dhconnelly/rtreego"
)

// pointEpsilon gives zero-area geometries a box the tree can hold
// (about 11 m at the equator).
const pointEpsilon = 0.0001

// indexedGeometry is one geometry of a warning as stored in the tree.
type indexedGeometry struct {
	id     string
	bounds domain.Bounds
}

// Bounds implements rtreego.Spatial.
func (g *indexedGeometry) Bounds() rtreego.Rect {
	return toRect(g.bounds)
}

type entry struct {
	record domain.WarningRecord
	items  []*indexedGeometry
}

// WarningIndex answers bounding-box queries over the latest warning records.
// It implements pipeline.BatchLoader so it can follow the Kafka writer.
type WarningIndex struct {
	mu      sync.RWMutex
	tree    *rtreego.Rtree
	byID    map[string]*entry
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates an empty index.
func New(metrics *observability.Metrics, logger *slog.Logger) *WarningIndex {
	return &WarningIndex{
		tree:    rtreego.NewTree(2, 25, 50),
		byID:    make(map[string]*entry),
		metrics: metrics,
		logger:  logger,
	}
}

// LoadBatch applies every record carried by the events in order.
func (x *WarningIndex) LoadBatch(_ context.Context, events []domain.OutputEvent) error {
	records := make([]domain.WarningRecord, 0, len(events))
	for _, e := range events {
		records = append(records, e.Record)
	}
	x.Upsert(records...)
	return nil
}

// Upsert stores each record under its ID, replacing an earlier version.
// References in Cancels are removed first. A cancellation notice is not
// stored itself.
func (x *WarningIndex) Upsert(records ...domain.WarningRecord) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, rec := range records {
		for _, ref := range rec.Cancels {
			id, ok := domain.ReferenceID(ref)
			if !ok {
				continue
			}
			if x.remove(id) {
				x.metrics.CancelledWarnings.Inc()
				x.logger.Debug("warning cancelled", "id", id, "reference", ref, "by", rec.ID)
			}
		}
		if rec.Cancelled {
			continue
		}

		x.remove(rec.ID)
		e := &entry{record: rec}
		for _, g := range rec.Coordinates {
			if len(g.Points) == 0 {
				continue
			}
			item := &indexedGeometry{id: rec.ID, bounds: g.Bounds()}
			x.tree.Insert(item)
			e.items = append(e.items, item)
		}
		x.byID[rec.ID] = e
	}
	x.metrics.IndexedWarnings.Set(float64(len(x.byID)))
}

// Remove drops the warning with the given ID. It reports whether the
// warning was present.
func (x *WarningIndex) Remove(id string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	ok := x.remove(id)
	x.metrics.IndexedWarnings.Set(float64(len(x.byID)))
	return ok
}

func (x *WarningIndex) remove(id string) bool {
	e, ok := x.byID[id]
	if !ok {
		return false
	}
	for _, item := range e.items {
		x.tree.Delete(item)
	}
	delete(x.byID, id)
	return true
}

// Get returns the stored record for id.
func (x *WarningIndex) Get(id string) (domain.WarningRecord, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	e, ok := x.byID[id]
	if !ok {
		return domain.WarningRecord{}, false
	}
	return e.record, true
}

// Search returns the warnings with at least one geometry whose bounding box
// intersects b, ordered by ID.
func (x *WarningIndex) Search(b domain.Bounds) []domain.WarningRecord {
	x.mu.RLock()
	defer x.mu.RUnlock()

	seen := make(map[string]bool)
	var out []domain.WarningRecord
	for _, s := range x.tree.SearchIntersect(toRect(b)) {
		item := s.(*indexedGeometry)
		// The tree pads zero-area boxes; recheck against the true bounds.
		if seen[item.id] || !item.bounds.Intersects(b) {
			continue
		}
		seen[item.id] = true
		out = append(out, x.byID[item.id].record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of stored warnings, with or without geometry.
func (x *WarningIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byID)
}

func toRect(b domain.Bounds) rtreego.Rect {
	point := rtreego.Point{b.MinLon, b.MinLat}
	lonLength := b.MaxLon - b.MinLon
	latLength := b.MaxLat - b.MinLat
	if lonLength < pointEpsilon {
		lonLength = pointEpsilon
	}
	if latLength < pointEpsilon {
		latLength = pointEpsilon
	}
	rect, _ := rtreego.NewRect(point, []float64{lonLength, latLength})
	return rect
}
