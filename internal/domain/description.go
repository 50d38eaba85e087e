package domain

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// strayMarkerRe matches a single-letter section marker left behind once
	// the feature texts are removed.
	strayMarkerRe = regexp.MustCompile(`(^|\s)[A-Z]\.(\s|$)`)
)

// FeatureDescription returns the description owned by records[idx]: the
// context shared by all features of the warning, followed by the feature's
// own text. Shared context is what remains of the full text once every
// feature's source text is subtracted. A single-feature warning returns the
// source text unchanged.
func FeatureDescription(full string, records []GeometryRecord, idx int) string {
	if idx < 0 || idx >= len(records) {
		return ""
	}
	own := records[idx].SourceText
	if len(records) == 1 {
		if own == "" {
			return normalizeSpace(full)
		}
		return own
	}

	common := commonContext(full, records)
	ownNorm := normalizeSpace(own)
	switch {
	case ownNorm == "":
		return common
	case common == "":
		return ownNorm
	case strings.HasSuffix(common, ":"):
		return common + " " + ownNorm
	default:
		return common + ": " + ownNorm
	}
}

// commonContext subtracts every feature's source text, case-insensitively,
// from the whitespace-normalized warning. A source text that is not found
// leaves the context unchanged.
func commonContext(full string, records []GeometryRecord) string {
	common := normalizeSpace(full)
	for _, r := range records {
		s := normalizeSpace(r.SourceText)
		if s == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(s))
		common = re.ReplaceAllLiteralString(common, " ")
	}

	// Replace markers twice: adjacent markers share the separating space.
	common = strayMarkerRe.ReplaceAllString(common, " ")
	common = strayMarkerRe.ReplaceAllString(common, " ")
	common = normalizeSpace(common)
	return strings.Trim(common, " ,;.")
}

// describeFeatures fills in Description on every record.
func describeFeatures(full string, records []GeometryRecord) {
	for i := range records {
		records[i].Description = FeatureDescription(full, records, i)
	}
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
