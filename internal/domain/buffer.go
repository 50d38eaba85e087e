package domain

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
)

// earthRadiusM is the mean Earth radius used by the local projection.
const earthRadiusM = 6371008.8

// aeqd is a spherical azimuthal equidistant projection centred on one point.
// Distances from the centre are preserved, which keeps a metric buffer
// accurate over the extent of a single trackline.
type aeqd struct {
	lat0, lon0       float64 // radians
	sinLat0, cosLat0 float64
}

func newAEQD(center Coordinate) aeqd {
	lat0 := center.Lat * math.Pi / 180
	return aeqd{
		lat0:    lat0,
		lon0:    center.Lon * math.Pi / 180,
		sinLat0: math.Sin(lat0),
		cosLat0: math.Cos(lat0),
	}
}

type vec struct{ x, y float64 }

func (a vec) add(b vec) vec { return vec{a.x + b.x, a.y + b.y} }
func (a vec) sub(b vec) vec { return vec{a.x - b.x, a.y - b.y} }
func (a vec) scale(k float64) vec { return vec{a.x * k, a.y * k} }
func (a vec) cross(b vec) float64 { return a.x*b.y - a.y*b.x }
func (a vec) length() float64 { return math.Hypot(a.x, a.y) }
func (a vec) angle() float64 { return math.Atan2(a.y, a.x) }
func polar(r, theta float64) vec { return vec{r * math.Cos(theta), r * math.Sin(theta)} }
func (a vec) finite() bool { return !math.IsNaN(a.x+a.y) && !math.IsInf(a.x+a.y, 0) }
func (a vec) equal(b vec) bool { return a.sub(b).length() < 1e-9 }
func (a vec) unitNormal() vec { l := a.length(); return vec{-a.y / l, a.x / l} }
func (a vec) unit() vec { l := a.length(); return vec{a.x / l, a.y / l} }
func (a vec) dot(b vec) float64 { return a.x*b.x + a.y*b.y }
func (a vec) negate() vec { return vec{-a.x, -a.y} }
func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

func (p aeqd) forward(c Coordinate) vec {
	lat := c.Lat * math.Pi / 180
	dLon := c.Lon*math.Pi/180 - p.lon0
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)

	cosC := clamp(p.sinLat0*sinLat+p.cosLat0*cosLat*math.Cos(dLon), -1, 1)
	dist := math.Acos(cosC)
	k := 1.0
	if dist > 1e-12 {
		k = dist / math.Sin(dist)
	}
	return vec{
		x: earthRadiusM * k * cosLat * math.Sin(dLon),
		y: earthRadiusM * k * (p.cosLat0*sinLat - p.sinLat0*cosLat*math.Cos(dLon)),
	}
}

func (p aeqd) inverse(v vec) Coordinate {
	rho := v.length()
	if rho < 1e-9 {
		return Coordinate{Lat: p.lat0 * 180 / math.Pi, Lon: p.lon0 * 180 / math.Pi}
	}
	c := rho / earthRadiusM
	sinC, cosC := math.Sin(c), math.Cos(c)

	lat := math.Asin(clamp(cosC*p.sinLat0+v.y*sinC*p.cosLat0/rho, -1, 1))
	lon := p.lon0 + math.Atan2(v.x*sinC, rho*p.cosLat0*cosC-v.y*p.sinLat0*sinC)
	return Coordinate{Lat: lat * 180 / math.Pi, Lon: normalizeLon(lon * 180 / math.Pi)}
}

func normalizeLon(lon float64) float64 {
	return math.Remainder(lon, 360)
}

// sphericalCentroid averages the points on the unit sphere.
func sphericalCentroid(points []Coordinate) Coordinate {
	var sum r3.Vector
	for _, c := range points {
		sum = sum.Add(s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon)).Vector)
	}
	if sum.Norm() == 0 {
		return points[0]
	}
	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return Coordinate{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
}

// TracklineBuffer buffers a multi-point trackline by berthNM with round caps
// and joins. The line is projected into a local azimuthal equidistant plane
// centred on its centroid, offset there in metres and projected back. The
// result is a closed counter-clockwise ring. When the planar outline is
// degenerate the convex hull of offset vertices is returned instead.
func TracklineBuffer(points []Coordinate, berthNM float64, segments int) []Coordinate {
	if len(points) == 0 {
		return nil
	}
	if segments <= 0 {
		segments = DefaultCircleSegments
	}

	proj := newAEQD(sphericalCentroid(points))
	planar := make([]vec, 0, len(points))
	for _, c := range points {
		v := proj.forward(c)
		if len(planar) > 0 && planar[len(planar)-1].equal(v) {
			continue
		}
		planar = append(planar, v)
	}

	ring := bufferPolyline(planar, berthNM*metersPerNM, segments/4)
	if len(ring) < 4 {
		return hullBuffer(points, berthNM)
	}

	out := make([]Coordinate, 0, len(ring)+1)
	for _, v := range ring {
		if !v.finite() {
			return hullBuffer(points, berthNM)
		}
		out = append(out, proj.inverse(v))
	}
	if signedArea(out) < 0 {
		out = reversed(out)
	}
	return append(out, out[0])
}

// bufferPolyline returns the outline of a round-capped, round-joined buffer
// of radius r around a planar polyline, without the closing vertex.
// quadSegs is the number of arc steps per quarter circle.
func bufferPolyline(pts []vec, r float64, quadSegs int) []vec {
	if r <= 0 || len(pts) == 0 {
		return nil
	}
	if quadSegs < 1 {
		quadSegs = 1
	}
	if len(pts) == 1 {
		var ring []vec
		for i := 0; i < 4*quadSegs; i++ {
			ring = append(ring, pts[0].add(polar(r, 2*math.Pi*float64(i)/float64(4*quadSegs))))
		}
		return ring
	}

	back := make([]vec, len(pts))
	for i, p := range pts {
		back[len(pts)-1-i] = p
	}

	var ring []vec
	ring = append(ring, offsetSide(pts, r, quadSegs)...)
	ring = append(ring, roundCap(pts[len(pts)-1], pts[len(pts)-2], r, quadSegs)...)
	ring = append(ring, offsetSide(back, r, quadSegs)...)
	ring = append(ring, roundCap(back[len(back)-1], back[len(back)-2], r, quadSegs)...)
	return ring
}

// offsetSide walks the left-hand offset of pts from the first vertex to the
// last, inserting arcs on outside corners and mitred points on inside ones.
func offsetSide(pts []vec, r float64, quadSegs int) []vec {
	dir := make([]vec, len(pts)-1)
	for i := range dir {
		dir[i] = pts[i+1].sub(pts[i])
	}

	out := []vec{pts[0].add(dir[0].unitNormal().scale(r))}
	for j := 1; j < len(pts)-1; j++ {
		prev, next := dir[j-1], dir[j]
		nPrev, nNext := prev.unitNormal(), next.unitNormal()
		turn := prev.cross(next)

		switch {
		case turn < -1e-9*prev.length()*next.length():
			// Right turn: the left side is the outside of the corner.
			out = append(out, arc(pts[j], nPrev.angle(), nNext.angle(), r, quadSegs)...)
		case turn > 1e-9*prev.length()*next.length():
			a1 := pts[j-1].add(nPrev.scale(r))
			a2 := pts[j].add(nNext.scale(r))
			t := a2.sub(a1).cross(next) / prev.cross(next)
			out = append(out, a1.add(prev.scale(t)))
		default:
			if prev.unit().dot(next.unit()) < 0 {
				// Full reversal: wrap around the vertex.
				out = append(out, arc(pts[j], nPrev.angle(), nPrev.negate().angle(), r, quadSegs)...)
				continue
			}
			out = append(out, pts[j].add(nNext.scale(r)))
		}
	}
	last := len(pts) - 1
	out = append(out, pts[last].add(dir[last-1].unitNormal().scale(r)))
	return out
}

// roundCap returns the half circle around end, excluding its first point
// (already emitted by the side) and its last (emitted by the next side).
func roundCap(end, before vec, r float64, quadSegs int) []vec {
	n := end.sub(before).unitNormal()
	a0 := n.angle()
	points := arc(end, a0, a0-math.Pi, r, quadSegs)
	if len(points) <= 2 {
		return nil
	}
	return points[1 : len(points)-1]
}

// arc returns points on the circle of radius r around center, rotating
// clockwise from angle a0 to a1, both ends included.
func arc(center vec, a0, a1, r float64, quadSegs int) []vec {
	sweep := a0 - a1
	for sweep <= 0 {
		sweep += 2 * math.Pi
	}
	for sweep > 2*math.Pi {
		sweep -= 2 * math.Pi
	}
	steps := int(math.Ceil(sweep / (math.Pi / 2 / float64(quadSegs))))
	if steps < 1 {
		steps = 1
	}
	out := make([]vec, 0, steps+1)
	for i := 0; i <= steps; i++ {
		out = append(out, center.add(polar(r, a0-sweep*float64(i)/float64(steps))))
	}
	return out
}

// hullBuffer approximates a buffer as the convex hull of each vertex offset
// north, south, east and west by the berth.
func hullBuffer(points []Coordinate, berthNM float64) []Coordinate {
	d := nmToDegrees(berthNM)
	query := s2.NewConvexHullQuery()
	for _, c := range points {
		dLon := d * lonScale(c.Lat)
		for _, off := range []Coordinate{{Lat: d}, {Lat: -d}, {Lon: dLon}, {Lon: -dLon}} {
			query.AddPoint(s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat+off.Lat, c.Lon+off.Lon)))
		}
	}

	vertices := query.ConvexHull().Vertices()
	out := make([]Coordinate, 0, len(vertices)+1)
	for _, v := range vertices {
		ll := s2.LatLngFromPoint(v)
		out = append(out, Coordinate{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()})
	}
	if len(out) == 0 {
		return nil
	}
	return append(out, out[0])
}

// signedArea is the shoelace area in (lon, lat) space; positive means
// counter-clockwise.
func signedArea(ring []Coordinate) float64 {
	var sum float64
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i].Lon*ring[j].Lat - ring[j].Lon*ring[i].Lat
	}
	return sum / 2
}
