package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracklineBuffer(t *testing.T) {
	line := []Coordinate{
		{Lat: 43.79, Lon: 28.50},
		{Lat: 43.80, Lon: 28.70},
		{Lat: 43.90, Lon: 28.80},
	}
	const berth = 1.0
	// One nautical mile of latitude in degrees on the mean sphere.
	dLat := metersPerNM / earthRadiusM * 180 / math.Pi

	ring := TracklineBuffer(line, berth, 64)

	require.Greater(t, len(ring), 10)
	assert.Equal(t, ring[0], ring[len(ring)-1], "ring is closed")
	assert.Greater(t, signedArea(ring), 0.0, "ring is counter-clockwise")

	in := boundsOf(line)
	out := boundsOf(ring)
	assert.InDelta(t, in.MinLat-dLat, out.MinLat, 2e-3)
	assert.InDelta(t, in.MaxLat+dLat, out.MaxLat, 2e-3)
	assert.Less(t, out.MinLon, in.MinLon)
	assert.Greater(t, out.MaxLon, in.MaxLon)
}

func TestTracklineBuffer_Reversal(t *testing.T) {
	line := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 0.5}}
	ring := TracklineBuffer(line, 1, 32)

	require.NotEmpty(t, ring)
	assert.Equal(t, ring[0], ring[len(ring)-1])
	assert.Greater(t, signedArea(ring), 0.0)
}

func TestTracklineBuffer_DuplicatePointsCollapse(t *testing.T) {
	c := Coordinate{Lat: 10, Lon: 20}
	ring := TracklineBuffer([]Coordinate{c, c, c}, 2, 32)

	require.NotEmpty(t, ring)
	b := boundsOf(ring)
	assert.InDelta(t, 10.0, (b.MinLat+b.MaxLat)/2, 1e-3)
	assert.InDelta(t, 20.0, (b.MinLon+b.MaxLon)/2, 1e-3)
}

func TestHullBuffer(t *testing.T) {
	points := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}
	ring := hullBuffer(points, 1)

	require.GreaterOrEqual(t, len(ring), 4)
	assert.Equal(t, ring[0], ring[len(ring)-1])

	b := boundsOf(ring)
	d := nmToDegrees(1)
	assert.InDelta(t, -d, b.MinLat, 1e-6)
	assert.InDelta(t, 1+d, b.MaxLat, 1e-6)
}

func TestAEQDRoundTrip(t *testing.T) {
	proj := newAEQD(Coordinate{Lat: 60, Lon: -150})
	for _, c := range []Coordinate{{Lat: 60, Lon: -150}, {Lat: 61.2, Lon: -149.1}, {Lat: 58.9, Lon: -152.4}} {
		got := proj.inverse(proj.forward(c))
		assert.InDelta(t, c.Lat, got.Lat, 1e-9)
		assert.InDelta(t, c.Lon, got.Lon, 1e-9)
	}
}

func TestSphericalCentroid(t *testing.T) {
	got := sphericalCentroid([]Coordinate{{Lat: 0, Lon: 179}, {Lat: 0, Lon: -179}})
	assert.InDelta(t, 180.0, math.Abs(got.Lon), 1e-9, "centroid crosses the antimeridian")
	assert.InDelta(t, 0.0, got.Lat, 1e-9)
}
