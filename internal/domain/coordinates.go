package domain

import (
	"regexp"
	"sort"
	"strconv"
)

var (
	// decimalMinuteRe matches degrees and decimal minutes, e.g. "32-23.50N 117-14.50W".
	// The leading group keeps a match from starting inside a longer numeric run.
	decimalMinuteRe = regexp.MustCompile(
		`(?:^|[^\d.°'-])(\d{1,3})[°-](\d{1,2}(?:\.\d{1,2})?)\s*([NS])[\s,]*(\d{1,3})[°-](\d{1,2}(?:\.\d{1,2})?)\s*([EW])`)

	// dmsRe matches degrees-minutes-seconds, e.g. "32-23-30N 117-14-30W".
	// The seconds group is required so decimal-minute tokens never match twice.
	dmsRe = regexp.MustCompile(
		`(?:^|[^\d.°'-])(\d{1,3})[°-](\d{1,2})[°'-](\d{1,2}(?:\.\d+)?)["]?\s*([NS])[\s,]*(\d{1,3})[°-](\d{1,2})[°'-](\d{1,2}(?:\.\d+)?)["]?\s*([EW])`)
)

// coordToken is a recognized coordinate and the byte span it occupies.
type coordToken struct {
	Coordinate
	start, end int
}

// ExtractCoordinates returns every coordinate in text. Decimal-minute
// matches come first, then DMS matches, each in order of appearance.
// Duplicates are kept: a closed polygon legitimately repeats its first vertex.
func ExtractCoordinates(text string) []Coordinate {
	tokens := tokenizeCoordinates(text)
	coords := make([]Coordinate, 0, len(tokens))
	for _, tok := range tokens {
		coords = append(coords, tok.Coordinate)
	}
	return coords
}

func tokenizeCoordinates(text string) []coordToken {
	var tokens []coordToken

	for _, m := range decimalMinuteRe.FindAllStringSubmatchIndex(text, -1) {
		g := submatches(text, m)
		lat, okLat := decimalDegrees(g[1], g[2], "", g[3])
		lon, okLon := decimalDegrees(g[4], g[5], "", g[6])
		if !okLat || !okLon || !validCoordinate(lat, lon) {
			continue
		}
		tokens = append(tokens, coordToken{Coordinate{Lat: lat, Lon: lon}, m[2], m[1]})
	}

	for _, m := range dmsRe.FindAllStringSubmatchIndex(text, -1) {
		g := submatches(text, m)
		lat, okLat := decimalDegrees(g[1], g[2], g[3], g[4])
		lon, okLon := decimalDegrees(g[5], g[6], g[7], g[8])
		if !okLat || !okLon || !validCoordinate(lat, lon) {
			continue
		}
		tokens = append(tokens, coordToken{Coordinate{Lat: lat, Lon: lon}, m[2], m[1]})
	}

	return tokens
}

// lastCoordinateEnd returns the byte offset just past the final coordinate
// token in text, or -1 when there is none.
func lastCoordinateEnd(text string) int {
	end := -1
	for _, tok := range tokenizeCoordinates(text) {
		if tok.end > end {
			end = tok.end
		}
	}
	return end
}

// tokensAfter returns the tokens starting at or after offset, in text order.
func tokensAfter(text string, offset int) []coordToken {
	var out []coordToken
	for _, tok := range tokenizeCoordinates(text) {
		if tok.start >= offset {
			out = append(out, tok)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// submatches converts an index slice into strings; unmatched groups are "".
func submatches(text string, idx []int) []string {
	out := make([]string, len(idx)/2)
	for i := range out {
		if idx[2*i] >= 0 {
			out[i] = text[idx[2*i]:idx[2*i+1]]
		}
	}
	return out
}

// decimalDegrees converts degree/minute/second strings and a hemisphere
// letter to signed decimal degrees. An empty seconds string means zero.
func decimalDegrees(deg, minutes, seconds, hemi string) (float64, bool) {
	d, err := strconv.ParseFloat(deg, 64)
	if err != nil {
		return 0, false
	}
	m, err := strconv.ParseFloat(minutes, 64)
	if err != nil || m >= 60 {
		return 0, false
	}
	var s float64
	if seconds != "" {
		s, err = strconv.ParseFloat(seconds, 64)
		if err != nil || s >= 60 {
			return 0, false
		}
	}

	v := d + m/60 + s/3600
	if hemi == "S" || hemi == "W" {
		v = -v
	}
	return v, true
}

func validCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
