package domain

import (
	"math"
)

// DefaultCircleSegments is the vertex count used to approximate circles.
const DefaultCircleSegments = 64

// minCosLat floors cos(lat) so longitude widening stays finite at the poles.
var minCosLat = math.Cos(89 * math.Pi / 180)

// lonScale is the longitude widening factor at lat.
func lonScale(lat float64) float64 {
	return 1 / math.Max(math.Cos(lat*math.Pi/180), minCosLat)
}

// wrapped clamps latitude to [-90, 90] and folds longitude into [-180, 180].
func wrapped(c Coordinate) Coordinate {
	return Coordinate{Lat: clamp(c.Lat, -90, 90), Lon: normalizeLon(c.Lon)}
}

// CircleApproximation returns n points around center at radiusDeg, plus the
// first point repeated to close the ring. Vertices run counter-clockwise
// starting due north; longitude offsets are widened by 1/cos(lat).
func CircleApproximation(center Coordinate, radiusDeg float64, n int) []Coordinate {
	if n <= 0 {
		n = DefaultCircleSegments
	}
	scale := lonScale(center.Lat)

	points := make([]Coordinate, 0, n+1)
	for i := 0; i < n; i++ {
		angle := -2 * math.Pi * float64(i) / float64(n)
		points = append(points, wrapped(Coordinate{
			Lat: center.Lat + radiusDeg*math.Cos(angle),
			Lon: center.Lon + radiusDeg*math.Sin(angle)*scale,
		}))
	}
	return append(points, points[0])
}

// TracklineBerthRectangle buffers a two-point trackline into the four
// corners of a rectangle, extended by the berth at both ends. The ring is
// not closed. A zero-length line degrades to a circle around its start.
func TracklineBerthRectangle(from, to Coordinate, berthNM float64, segments int) []Coordinate {
	berth := nmToDegrees(berthNM)
	scale := lonScale((from.Lat + to.Lat) / 2)

	// Planar direction in (lon, lat) space.
	dx := to.Lon - from.Lon
	dy := to.Lat - from.Lat
	length := math.Hypot(dx, dy)
	if length == 0 {
		return CircleApproximation(from, berth, segments)
	}
	ux, uy := dx/length, dy/length
	px, py := -uy, ux

	offset := func(c Coordinate, ax, ay float64) Coordinate {
		return Coordinate{Lat: c.Lat + ay*berth, Lon: c.Lon + ax*berth*scale}
	}

	start := offset(from, -ux, -uy)
	end := offset(to, ux, uy)
	return []Coordinate{
		wrapped(offset(start, px, py)),
		wrapped(offset(end, px, py)),
		wrapped(offset(end, -px, -py)),
		wrapped(offset(start, -px, -py)),
	}
}

// BerthExpandedBoundary replaces a polygon with its bounding box grown by
// the berth on every side. Corners run SW, SE, NE, NW.
func BerthExpandedBoundary(points []Coordinate, berthNM float64) []Coordinate {
	b := boundsOf(points)
	d := nmToDegrees(berthNM)
	minLat, maxLat := math.Max(b.MinLat-d, -90), math.Min(b.MaxLat+d, 90)
	minLon, maxLon := math.Max(b.MinLon-d, -180), math.Min(b.MaxLon+d, 180)
	return []Coordinate{
		{Lat: minLat, Lon: minLon},
		{Lat: minLat, Lon: maxLon},
		{Lat: maxLat, Lon: maxLon},
		{Lat: maxLat, Lon: minLon},
	}
}

// reversed returns a copy of points in reverse order. Boundary areas are
// emitted this way so the rendered ring winds counter-clockwise.
func reversed(points []Coordinate) []Coordinate {
	out := make([]Coordinate, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// Bounds is an axis-aligned bounding box in decimal degrees.
type Bounds struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// Intersects reports whether two boxes overlap, edges included.
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinLat <= o.MaxLat && o.MinLat <= b.MaxLat &&
		b.MinLon <= o.MaxLon && o.MinLon <= b.MaxLon
}

// Bounds returns the bounding box of the record's points.
func (g GeometryRecord) Bounds() Bounds {
	return boundsOf(g.Points)
}

func boundsOf(points []Coordinate) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lon, MaxLon: points[0].Lon,
	}
	for _, p := range points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}
	return b
}
