package domain

import (
	"regexp"
)

var facilityRe = regexp.MustCompile(`(?i)\b(?:MODUS?|MOBILE\s+OFFSHORE\s+DRILLING\s+UNITS?|MOORING|MOORED|PLATFORMS?|DRILL\s?SHIPS?|DRILLING\s+RIGS?|RIGS?|FPSO|WELLHEADS?|FACILIT(?:Y|IES))\b`)

const (
	// scatterMaxPoints caps how many points are joined into one polygon.
	scatterMaxPoints = 10
	// scatterMinPoints is the count above which a globe-spanning set is scattered.
	scatterMinPoints = 3
)

// warningContext carries what the warning-level rules look at.
type warningContext struct {
	text   string
	tokens []coordToken
	coords []Coordinate
}

// classifierRule is one entry of the warning-level classification table.
type classifierRule struct {
	name    string
	applies func(wc warningContext) bool
	build   func(p *Parser, wc warningContext) []GeometryRecord
}

// classifierRules are evaluated top to bottom. The first rule that applies
// and yields at least one record wins; an empty result falls through to the
// next, coarser rule.
var classifierRules = []classifierRule{
	{
		name:    "lettered-sections",
		applies: func(wc warningContext) bool { return hasLetteredSections(wc.text) },
		build:   func(p *Parser, wc warningContext) []GeometryRecord { return p.SegmentFeatures(wc.text) },
	},
	{
		name: "trackline",
		applies: func(wc warningContext) bool {
			return len(wc.coords) >= 2 && tracklineRe.MatchString(wc.text)
		},
		build: func(p *Parser, wc warningContext) []GeometryRecord {
			berth, ok := berthDistance(wc.text)
			return []GeometryRecord{p.trackline("Trackline", wc.text, wc.coords, berth, ok)}
		},
	},
	{
		name:    "labeled-areas",
		applies: func(wc warningContext) bool { return areasBoundByRe.MatchString(wc.text) },
		build:   func(p *Parser, wc warningContext) []GeometryRecord { return p.labeledAreas(wc.text) },
	},
	{
		name: "bound-by",
		applies: func(wc warningContext) bool {
			return len(wc.coords) >= 3 && boundByRe.MatchString(wc.text)
		},
		build: func(p *Parser, wc warningContext) []GeometryRecord {
			return []GeometryRecord{boundary("Area", wc.text, wc.coords)}
		},
	},
	{
		name: "circle",
		applies: func(wc warningContext) bool {
			return len(wc.coords) > 0 && withinRe.MatchString(wc.text)
		},
		build: func(p *Parser, wc warningContext) []GeometryRecord {
			radius, _ := withinRadius(wc.text)
			if berth, ok := berthDistance(wc.text); ok {
				radius += berth
			}
			return []GeometryRecord{p.circle("Circle", wc.text, circleCenter(wc), radius)}
		},
	},
	{
		name: "berth",
		applies: func(wc warningContext) bool {
			_, ok := berthDistance(wc.text)
			return ok && len(wc.coords) == 1
		},
		build: func(p *Parser, wc warningContext) []GeometryRecord {
			berth, _ := berthDistance(wc.text)
			return []GeometryRecord{p.circle("Circle", wc.text, wc.coords[0], berth)}
		},
	},
	{
		name: "facility",
		applies: func(wc warningContext) bool {
			return len(wc.coords) > 0 && facilityRe.MatchString(wc.text)
		},
		build: func(p *Parser, wc warningContext) []GeometryRecord {
			if len(wc.coords) == 1 {
				return []GeometryRecord{point("Facility", wc.text, wc.coords[0])}
			}
			return []GeometryRecord{{
				Label:      "Facilities",
				Kind:       KindFacilityLocations,
				Points:     wc.coords,
				SourceText: wc.text,
			}}
		},
	},
	{
		name: "depths",
		applies: func(wc warningContext) bool {
			return depthReportRe.MatchString(wc.text) || metersInRe.MatchString(wc.text)
		},
		build: func(p *Parser, wc warningContext) []GeometryRecord {
			return pointPerToken(wc.text, wc.tokens, KindDepth, "Depth")
		},
	},
	{
		name:    "default",
		applies: func(wc warningContext) bool { return len(wc.coords) > 0 },
		build: func(p *Parser, wc warningContext) []GeometryRecord {
			if shouldScatter(wc.coords) {
				return pointPerToken(wc.text, wc.tokens, KindScattered, "Point")
			}
			switch len(wc.coords) {
			case 1:
				return []GeometryRecord{point("Point", wc.text, wc.coords[0])}
			case 2:
				return []GeometryRecord{{Label: "Points", Kind: KindScattered, Points: wc.coords, SourceText: wc.text}}
			default:
				return []GeometryRecord{boundary("Area", wc.text, wc.coords)}
			}
		},
	},
}

// ExtractGeometries chooses a geometry strategy for a whole warning body.
// It returns nil for purely textual notices.
func (p *Parser) ExtractGeometries(text string) []GeometryRecord {
	tokens := tokenizeCoordinates(text)
	wc := warningContext{text: text, tokens: tokens, coords: make([]Coordinate, 0, len(tokens))}
	for _, tok := range tokens {
		wc.coords = append(wc.coords, tok.Coordinate)
	}

	for _, rule := range classifierRules {
		if !rule.applies(wc) {
			continue
		}
		if records := rule.build(p, wc); len(records) > 0 {
			return records
		}
	}
	return nil
}

// labeledAreas handles "AREAS BOUND BY" warnings: lettered sections when
// present, otherwise one feature per "TRACKLINE JOINING", "AREA BOUND BY"
// or "AREA WITHIN N MILES OF" phrase.
func (p *Parser) labeledAreas(text string) []GeometryRecord {
	sections := letteredSections(text)
	if len(sections) == 0 {
		sections = phraseSections(text)
	}

	var out []GeometryRecord
	for _, s := range sections {
		out = append(out, p.classifySection(s, text)...)
	}
	return out
}

// circleCenter picks the first coordinate after the "WITHIN ... OF" phrase,
// or the first coordinate in the text.
func circleCenter(wc warningContext) Coordinate {
	if loc := withinRe.FindStringIndex(wc.text); loc != nil {
		for _, tok := range wc.tokens {
			if tok.start >= loc[1] {
				return tok.Coordinate
			}
		}
	}
	return wc.coords[0]
}

// shouldScatter reports whether points are too many or too far apart to
// form one polygon.
func shouldScatter(coords []Coordinate) bool {
	if len(coords) > scatterMaxPoints {
		return true
	}
	if len(coords) <= scatterMinPoints {
		return false
	}
	b := boundsOf(coords)
	return b.MaxLat-b.MinLat > 90 || b.MaxLon-b.MinLon > 180
}
