package domain

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	metersPerNM = 1852.0

	// degreesPerNM is the flat conversion used for every berth and radius.
	// One minute of latitude is exactly 1/60 degree; see DESIGN.md for why the
	// rounded value is kept.
	degreesPerNM = 0.01667

	// defaultBerthNM applies when a berth is requested without a distance.
	defaultBerthNM = 1.0
)

// spelledNumbers is the lexicon of written-out distances seen in bulletins.
var spelledNumbers = map[string]float64{
	"ONE": 1, "TWO": 2, "THREE": 3, "FOUR": 4, "FIVE": 5,
	"SIX": 6, "SEVEN": 7, "EIGHT": 8, "NINE": 9, "TEN": 10,
}

const (
	numberPattern = `(\d+(?:\.\d+)?|ONE|TWO|THREE|FOUR|FIVE|SIX|SEVEN|EIGHT|NINE|TEN)`
	unitPattern   = `(NAUTICAL\s+MILES?|MILES?|NM|METERS?|METRES?)`
)

var (
	distanceRe = regexp.MustCompile(`(?i)\b` + numberPattern + `[\s-]*` + unitPattern + `\b`)

	// withinRe matches "WITHIN 5 MILES OF" and "WITHIN 200 METERS OF".
	withinRe = regexp.MustCompile(`(?i)\bWITHIN\s+` + numberPattern + `[\s-]*` + unitPattern + `\s+OF\b`)

	// berthDistanceRe matches "5 MILE BERTH", "BERTH OF 2 MILES" and "2NM BERTH".
	berthDistanceRe = regexp.MustCompile(`(?i)\b` + numberPattern + `[\s-]*` + unitPattern + `\s+(?:WIDE\s+)?BERTH\b|\bBERTH\s+OF\s+` + numberPattern + `[\s-]*` + unitPattern)

	berthRequestRe = regexp.MustCompile(`(?i)\bWIDE\s+BERTH\b|\bBERTH\s+(?:IS\s+)?REQUESTED\b`)
)

// ParseDistance converts a distance phrase such as "5 MILES", "THREE
// NAUTICAL MILES" or "200 METERS" to nautical miles. Miles are always
// nautical miles in this domain.
func ParseDistance(phrase string) (float64, bool) {
	m := distanceRe.FindStringSubmatch(phrase)
	if m == nil {
		return 0, false
	}
	return toNauticalMiles(m[1], m[2])
}

func toNauticalMiles(number, unit string) (float64, bool) {
	number = strings.ToUpper(number)
	v, ok := spelledNumbers[number]
	if !ok {
		var err error
		v, err = strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, false
		}
	}

	unit = strings.ToUpper(unit)
	if strings.HasPrefix(unit, "METER") || strings.HasPrefix(unit, "METRE") {
		return v / metersPerNM, true
	}
	return v, true
}

// withinRadius returns the radius of the first "WITHIN N UNITS OF" phrase.
func withinRadius(text string) (float64, bool) {
	m := withinRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return toNauticalMiles(m[1], m[2])
}

// berthDistance reports the berth requested in text. An explicit distance
// wins; a bare "WIDE BERTH" or "BERTH REQUESTED" means one mile.
func berthDistance(text string) (float64, bool) {
	if m := berthDistanceRe.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			return toNauticalMiles(m[1], m[2])
		}
		return toNauticalMiles(m[3], m[4])
	}
	if berthRequestRe.MatchString(text) {
		return defaultBerthNM, true
	}
	return 0, false
}

// berthFor checks the section first and then the whole warning.
func berthFor(section, whole string) (float64, bool) {
	if nm, ok := berthDistance(section); ok {
		return nm, true
	}
	return berthDistance(whole)
}

func nmToDegrees(nm float64) float64 {
	return nm * degreesPerNM
}
