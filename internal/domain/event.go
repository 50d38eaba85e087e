package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RawMemorandum is the JSON structure produced by the bulletin collector.
// One message carries the full daily text for one broadcast area.
type RawMemorandum struct {
	Name      string     `json:"name"`                 // e.g. "HYDROPAC (Indo-Pacific)"
	Text      string     `json:"text"`                 // raw multi-warning bulletin text
	FetchedAt *time.Time `json:"fetched_at,omitempty"` // when the collector downloaded it
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Coordinate is a latitude/longitude pair in signed decimal degrees.
// It serializes as a two-element [lat, lon] array.
type Coordinate struct {
	Lat float64
	Lon float64
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{c.Lat, c.Lon})
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode coordinate: %w", err)
	}
	c.Lat, c.Lon = pair[0], pair[1]
	return nil
}

// GeometryKind tells the rendering side which primitive a record maps to.
type GeometryKind string

const (
	KindPoint              GeometryKind = "Point"
	KindFacilityLocations  GeometryKind = "FacilityLocations"
	KindBoundaryArea       GeometryKind = "BoundaryArea"
	KindBoundaryAreaBerth  GeometryKind = "BoundaryAreaBerth"
	KindTrackline          GeometryKind = "Trackline"
	KindTracklineArea      GeometryKind = "TracklineArea"
	KindTracklineBerthArea GeometryKind = "TracklineBerthArea"
	KindCircularArea       GeometryKind = "CircularArea"
	KindDepth              GeometryKind = "Depth"
	KindScattered          GeometryKind = "Scattered"
)

// GeometryRecord is one feature extracted from a warning. Points is never
// empty. SourceText, when set, is the exact slice of the warning text the
// record was built from.
type GeometryRecord struct {
	Label       string       `json:"label"`
	Kind        GeometryKind `json:"kind"`
	Points      []Coordinate `json:"points"`
	SourceText  string       `json:"source_text,omitempty"`
	RadiusNM    float64      `json:"radius_nm,omitempty"` // circular areas only
	Description string       `json:"description,omitempty"`
}

// WarningRecord is the structured form of one navigational warning.
type WarningRecord struct {
	ID          string           `json:"id"`
	NavArea     string           `json:"navarea"`
	MsgNumber   string           `json:"msg_number"`
	MsgYear     string           `json:"msg_year"`
	Content     string           `json:"content"`
	Description string           `json:"description"`
	Coordinates []GeometryRecord `json:"coordinates"`
	Source      string           `json:"source"`
	Format      MemorandumFormat `json:"format"`
	Timestamp   string           `json:"timestamp,omitempty"` // date-time group, e.g. "201530Z NOV 24"
	Expires     string           `json:"expires,omitempty"`   // from "CANCEL THIS MSG <DTG>"
	Cancelled   bool             `json:"cancelled,omitempty"` // the warning is itself a cancellation notice
	Cancels     []string         `json:"cancels,omitempty"`
	ProcessedAt time.Time        `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
// Record keeps the decoded warning for in-process loaders such as the index.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
	Record  WarningRecord
}

// MemorandumParser turns one raw memorandum into warning records.
type MemorandumParser interface {
	ParseMemorandum(name, text string) []WarningRecord
}
