package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []Coordinate
	}{
		{
			name:     "decimal minutes",
			text:     "41-42.80N 070-30.30W",
			expected: []Coordinate{{Lat: 41.71333, Lon: -70.505}},
		},
		{
			name:     "southern and eastern hemispheres",
			text:     "AREA 33-51.00S 151-12.60E.",
			expected: []Coordinate{{Lat: -33.85, Lon: 151.21}},
		},
		{
			name:     "degree sign and comma separator",
			text:     "10°30.00N, 020°15.00E",
			expected: []Coordinate{{Lat: 10.5, Lon: 20.25}},
		},
		{
			name:     "degrees minutes seconds",
			text:     "32-23-30N 117-14-30W",
			expected: []Coordinate{{Lat: 32.391667, Lon: -117.241667}},
		},
		{
			name: "decimal matches precede DMS matches",
			text: "32-23-30N 117-14-30W THEN 10-00.00N 020-00.00E",
			expected: []Coordinate{
				{Lat: 10, Lon: 20},
				{Lat: 32.391667, Lon: -117.241667},
			},
		},
		{
			name: "repeated vertex kept",
			text: "10-00.00N 020-00.00E, 11-00.00N 020-00.00E, 10-00.00N 020-00.00E",
			expected: []Coordinate{
				{Lat: 10, Lon: 20},
				{Lat: 11, Lon: 20},
				{Lat: 10, Lon: 20},
			},
		},
		{
			name:     "minutes of sixty rejected",
			text:     "10-60.00N 020-00.00E",
			expected: []Coordinate{},
		},
		{
			name:     "out of range latitude rejected",
			text:     "95-00.00N 020-00.00E",
			expected: []Coordinate{},
		},
		{
			name:     "no coordinates",
			text:     "FIREWORKS DISPLAY CANCELLED.",
			expected: []Coordinate{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCoordinates(tt.text)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i].Lat, got[i].Lat, 1e-4, "lat %d", i)
				assert.InDelta(t, tt.expected[i].Lon, got[i].Lon, 1e-4, "lon %d", i)
			}
		})
	}
}

func TestExtractCoordinates_ReadOnly(t *testing.T) {
	text := "A. 61-32.92N 059-23.18W"
	_ = ExtractCoordinates(text)
	assert.Equal(t, "A. 61-32.92N 059-23.18W", text)
}

func TestDecimalDegrees(t *testing.T) {
	tests := []struct {
		name                  string
		deg, mins, secs, hemi string
		expected              float64
		ok                    bool
	}{
		{"north", "41", "42.80", "", "N", 41.713333, true},
		{"west", "070", "30.30", "", "W", -70.505, true},
		{"south with seconds", "12", "30", "36", "S", -12.51, true},
		{"minutes too large", "12", "60", "", "N", 0, false},
		{"seconds too large", "12", "30", "60", "N", 0, false},
		{"garbage degrees", "x", "30", "", "N", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decimalDegrees(tt.deg, tt.mins, tt.secs, tt.hemi)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestTokensAfter(t *testing.T) {
	text := "PLATFORM 10-00.00N 020-00.00E. DEPTHS REPORTED 11-00.00N 021-00.00E, 12-00.00N 022-00.00E"
	offset := depthReportRe.FindStringIndex(text)[1]

	tokens := tokensAfter(text, offset)
	require.Len(t, tokens, 2)
	assert.InDelta(t, 11.0, tokens[0].Lat, 1e-9)
	assert.InDelta(t, 12.0, tokens[1].Lat, 1e-9)
	assert.Equal(t, "11-00.00N 021-00.00E", text[tokens[0].start:tokens[0].end])
}
