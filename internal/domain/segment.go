package domain

import (
	"regexp"
	"strconv"
)

var (
	// sectionMarkerRe finds lettered sub-area markers ("A. ", "B. ", "AA. ")
	// at the start of the text or after whitespace or list punctuation.
	sectionMarkerRe = regexp.MustCompile(`(?:^|[\s:;,(])([A-Z]{1,2})\.\s`)

	// lineMarkerRe is the lenient fallback: a letter opening a line, followed
	// by a period or parenthesis with or without a space.
	lineMarkerRe = regexp.MustCompile(`(?m)^[ \t]*([A-Z]{1,2})[.)]`)

	depthReportRe  = regexp.MustCompile(`(?i)\bDEPTHS?\s+REPORTED\b`)
	metersInRe     = regexp.MustCompile(`(?i)\bMETERS\s+IN\b`)
	boundByRe      = regexp.MustCompile(`(?i)\bBOUND(?:ED)?\s+BY\b`)
	areasBoundByRe = regexp.MustCompile(`(?i)\bAREAS?\s+BOUND(?:ED)?\s+BY\b`)
	tracklineRe    = regexp.MustCompile(`(?i)\bTRACK\s?LINES?\b`)

	// featurePhraseRe finds unlabeled features that begin with a phrase
	// rather than a letter.
	featurePhraseRe = regexp.MustCompile(`(?i)\bTRACK\s?LINES?\s+JOINING\b|\bAREAS?\s+BOUND(?:ED)?\s+BY\b|\bAREAS?\s+WITHIN\s+` + numberPattern + `[\s-]*` + unitPattern + `\s+OF\b`)
)

// section is one lettered (or phrase-delimited) part of a warning. Text is
// an exact slice of the warning it came from.
type section struct {
	label string
	text  string
}

// nextLabel returns the label following l: A..Z, then AA, AB, ...
func nextLabel(l string) string {
	b := []byte(l)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 'Z' {
			b[i]++
			return string(b)
		}
		b[i] = 'A'
	}
	return "A" + string(b)
}

// sequentialSections cuts text at markers whose labels run A, B, C, ... in
// order; out-of-sequence markers ("MSG. ", "U.S. ") are ignored. The last
// section is truncated after its final coordinate to drop trailing
// boilerplate.
func sequentialSections(text string, marker *regexp.Regexp) []section {
	type cut struct {
		label string
		at    int
	}

	var cuts []cut
	expected := "A"
	for _, m := range marker.FindAllStringSubmatchIndex(text, -1) {
		label := text[m[2]:m[3]]
		if label != expected {
			continue
		}
		cuts = append(cuts, cut{label: label, at: m[2]})
		expected = nextLabel(expected)
	}

	sections := make([]section, 0, len(cuts))
	for i, c := range cuts {
		end := len(text)
		if i+1 < len(cuts) {
			end = cuts[i+1].at
		}
		body := text[c.at:end]
		if i == len(cuts)-1 {
			body = truncateAfterLastCoordinate(body)
		}
		sections = append(sections, section{label: c.label, text: body})
	}
	return sections
}

func truncateAfterLastCoordinate(text string) string {
	if end := lastCoordinateEnd(text); end > 0 {
		return text[:end]
	}
	return text
}

// letteredSections runs the primary segmenter and, when it finds nothing,
// the line-oriented fallback.
func letteredSections(text string) []section {
	if sections := sequentialSections(text, sectionMarkerRe); len(sections) > 0 {
		return sections
	}
	return sequentialSections(text, lineMarkerRe)
}

// hasLetteredSections reports whether text is split into at least two
// lettered sub-areas by either segmenter.
func hasLetteredSections(text string) bool {
	return len(sequentialSections(text, sectionMarkerRe)) > 1 ||
		len(sequentialSections(text, lineMarkerRe)) > 1
}

// phraseSections cuts text at each feature phrase; used for unlabeled
// multi-area warnings. Labels are 1-based ordinals, or empty when there is
// only one phrase.
func phraseSections(text string) []section {
	matches := featurePhraseRe.FindAllStringIndex(text, -1)
	sections := make([]section, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := text[m[0]:end]
		if i == len(matches)-1 {
			body = truncateAfterLastCoordinate(body)
		}
		label := ""
		if len(matches) > 1 {
			label = strconv.Itoa(i + 1)
		}
		sections = append(sections, section{label: label, text: body})
	}
	return sections
}

// SegmentFeatures produces one record per lettered sub-area of a warning.
// A depth report bypasses sections and yields one record per sounding.
func (p *Parser) SegmentFeatures(text string) []GeometryRecord {
	if depthReportRe.MatchString(text) {
		return depthRecords(text)
	}

	var out []GeometryRecord
	for _, s := range letteredSections(text) {
		out = append(out, p.classifySection(s, text)...)
	}
	return out
}

// depthRecords emits every coordinate after the depth keyword as its own point.
func depthRecords(text string) []GeometryRecord {
	loc := depthReportRe.FindStringIndex(text)
	offset := 0
	if loc != nil {
		offset = loc[1]
	}
	return pointPerToken(text, tokensAfter(text, offset), KindDepth, "Depth")
}

func pointPerToken(text string, tokens []coordToken, kind GeometryKind, prefix string) []GeometryRecord {
	out := make([]GeometryRecord, 0, len(tokens))
	for i, tok := range tokens {
		out = append(out, GeometryRecord{
			Label:      prefix + "_" + strconv.Itoa(i+1),
			Kind:       kind,
			Points:     []Coordinate{tok.Coordinate},
			SourceText: text[tok.start:tok.end],
		})
	}
	return out
}

// sectionContext carries what the section rules look at.
type sectionContext struct {
	section
	whole  string
	coords []Coordinate
}

// sectionRule is one entry of the per-section classification table.
type sectionRule struct {
	name    string
	applies func(sc sectionContext) bool
	build   func(p *Parser, sc sectionContext) []GeometryRecord
}

// sectionRules are evaluated top to bottom; the first rule that applies
// decides the geometry of the section.
var sectionRules = []sectionRule{
	{
		name: "circle",
		applies: func(sc sectionContext) bool {
			return len(sc.coords) == 1 && withinRe.MatchString(sc.text)
		},
		build: func(p *Parser, sc sectionContext) []GeometryRecord {
			radius, _ := withinRadius(sc.text)
			if berth, ok := berthFor(sc.text, sc.whole); ok {
				radius += berth
			}
			return []GeometryRecord{p.circle(labelFor("Circle", sc.label), sc.text, sc.coords[0], radius)}
		},
	},
	{
		name: "bound-by",
		applies: func(sc sectionContext) bool {
			return boundByRe.MatchString(sc.text) && (len(sc.coords) >= 3 || len(sc.coords) == 1)
		},
		build: func(p *Parser, sc sectionContext) []GeometryRecord {
			if len(sc.coords) == 1 {
				return []GeometryRecord{point(labelFor("Point", sc.label), sc.text, sc.coords[0])}
			}
			return []GeometryRecord{boundary(labelFor("Area", sc.label), sc.text, sc.coords)}
		},
	},
	{
		name: "trackline",
		applies: func(sc sectionContext) bool {
			return len(sc.coords) >= 2 && tracklineRe.MatchString(sc.whole)
		},
		build: func(p *Parser, sc sectionContext) []GeometryRecord {
			berth, ok := berthFor(sc.text, sc.whole)
			return []GeometryRecord{p.trackline(labelFor("Trackline", sc.label), sc.text, sc.coords, berth, ok)}
		},
	},
	{
		name: "bounded-context",
		applies: func(sc sectionContext) bool {
			return len(sc.coords) >= 3 && boundByRe.MatchString(sc.whole)
		},
		build: func(p *Parser, sc sectionContext) []GeometryRecord {
			return []GeometryRecord{boundary(labelFor("Area", sc.label), sc.text, sc.coords)}
		},
	},
	{
		name:    "default",
		applies: func(sc sectionContext) bool { return len(sc.coords) > 0 },
		build: func(p *Parser, sc sectionContext) []GeometryRecord {
			switch {
			case len(sc.coords) == 1:
				if berth, ok := berthFor(sc.text, sc.whole); ok {
					return []GeometryRecord{p.circle(labelFor("Circle", sc.label), sc.text, sc.coords[0], berth)}
				}
				return []GeometryRecord{point(labelFor("Point", sc.label), sc.text, sc.coords[0])}
			case len(sc.coords) >= 3:
				return []GeometryRecord{boundary(labelFor("Area", sc.label), sc.text, sc.coords)}
			default:
				return []GeometryRecord{{
					Label:      labelFor("Points", sc.label),
					Kind:       KindScattered,
					Points:     sc.coords,
					SourceText: sc.text,
				}}
			}
		},
	},
}

func (p *Parser) classifySection(s section, whole string) []GeometryRecord {
	sc := sectionContext{section: s, whole: whole, coords: ExtractCoordinates(s.text)}
	for _, rule := range sectionRules {
		if rule.applies(sc) {
			return rule.build(p, sc)
		}
	}
	return nil
}

func labelFor(prefix, label string) string {
	if label == "" {
		return prefix
	}
	return prefix + "_" + label
}

func point(label, source string, c Coordinate) GeometryRecord {
	return GeometryRecord{Label: label, Kind: KindPoint, Points: []Coordinate{c}, SourceText: source}
}

// boundary emits a polygon in reverse extraction order. An explicit berth
// inside the feature text replaces it with the expanded bounding box.
func boundary(label, source string, coords []Coordinate) GeometryRecord {
	if berth, ok := berthDistance(source); ok {
		return GeometryRecord{
			Label:      label,
			Kind:       KindBoundaryAreaBerth,
			Points:     BerthExpandedBoundary(coords, berth),
			SourceText: source,
		}
	}
	return GeometryRecord{Label: label, Kind: KindBoundaryArea, Points: reversed(coords), SourceText: source}
}

func (p *Parser) circle(label, source string, center Coordinate, radiusNM float64) GeometryRecord {
	return GeometryRecord{
		Label:      label,
		Kind:       KindCircularArea,
		Points:     CircleApproximation(center, nmToDegrees(radiusNM), p.segments),
		SourceText: source,
		RadiusNM:   radiusNM,
	}
}

// trackline emits the line as-is, or buffered when a berth applies: two
// points become a rectangle, longer lines a round-capped buffer.
func (p *Parser) trackline(label, source string, coords []Coordinate, berthNM float64, buffered bool) GeometryRecord {
	rec := GeometryRecord{Label: label, SourceText: source}
	switch {
	case !buffered:
		rec.Kind = KindTrackline
		rec.Points = append([]Coordinate(nil), coords...)
	case len(coords) == 2:
		rec.Kind = KindTracklineBerthArea
		rec.Points = TracklineBerthRectangle(coords[0], coords[1], berthNM, p.segments)
	default:
		rec.Kind = KindTracklineArea
		rec.Points = TracklineBuffer(coords, berthNM, p.segments)
	}
	return rec
}
