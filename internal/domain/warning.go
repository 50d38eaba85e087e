package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// msgNumberRe matches the message number/year pair, e.g. "1234/24".
	msgNumberRe = regexp.MustCompile(`\b(\d{1,4})/(\d{2,4})\b`)

	// listMarkerRe matches a leading "1. " list marker on any line.
	listMarkerRe = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)

	nonAlnumRe = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// navAreaRule maps a memorandum name fragment to a broadcast area code.
type navAreaRule struct {
	fragments []string
	code      string
	fold      bool // case-insensitive match
}

// navAreaRules are checked in order; the first fragment found wins.
var navAreaRules = []navAreaRule{
	{fragments: []string{"HYDROPAC"}, code: "HYDROPAC"},
	{fragments: []string{"HYDROARC"}, code: "HYDROARC"},
	{fragments: []string{"HYDROLANT"}, code: "HYDROLANT"},
	{fragments: []string{"NAVAREA IV", "MemIV"}, code: "NAVAREA IV"},
	{fragments: []string{"NAVAREA XII", "MemXII"}, code: "NAVAREA XII"},
	{fragments: []string{"MemPAC"}, code: "HYDROPAC"},
	{fragments: []string{"MemLAN"}, code: "HYDROLANT"},
	{fragments: []string{"MemARC"}, code: "HYDROARC"},
	{fragments: []string{"US Atlantic"}, code: "NAVAREA IV", fold: true},
	{fragments: []string{"Arctic"}, code: "HYDROARC", fold: true},
	{fragments: []string{"Atlantic"}, code: "HYDROLANT", fold: true},
	{fragments: []string{"Pacific"}, code: "HYDROPAC", fold: true},
}

// UnknownNavArea is returned when no rule matches the memorandum name.
const UnknownNavArea = "UNKNOWN"

// ResolveNavArea derives the broadcast area code from a memorandum name.
func ResolveNavArea(name string) string {
	upper := strings.ToUpper(name)
	for _, rule := range navAreaRules {
		for _, f := range rule.fragments {
			if strings.Contains(name, f) || (rule.fold && strings.Contains(upper, strings.ToUpper(f))) {
				return rule.code
			}
		}
	}
	return UnknownNavArea
}

// ParseMemorandum splits a raw memorandum and parses every warning in it.
// Blank warnings are skipped, so the result may be empty.
func (p *Parser) ParseMemorandum(name, text string) []WarningRecord {
	split := SplitMemorandum(text)
	navArea := ResolveNavArea(name)

	records := make([]WarningRecord, 0, len(split.Warnings))
	for i, w := range split.Warnings {
		if strings.TrimSpace(w) == "" {
			continue
		}
		rec := p.ParseWarning(name, navArea, w, i)
		rec.Format = split.Format
		records = append(records, rec)
	}
	return records
}

// ParseWarning builds one warning record. ordinal is the warning's position
// in its memorandum and only matters when the text carries no message number.
func (p *Parser) ParseWarning(source, navArea, text string, ordinal int) WarningRecord {
	number, year := messageNumber(text)
	if number == "" {
		number = fmt.Sprintf("%s-%d", memorandumSlug(source), ordinal+1)
		year = strconv.Itoa(clock.Now().Year())
	}

	description := strings.TrimSpace(listMarkerRe.ReplaceAllString(text, ""))
	geometries := p.ExtractGeometries(description)
	describeFeatures(description, geometries)
	if geometries == nil {
		geometries = []GeometryRecord{}
	}

	return WarningRecord{
		ID:          WarningID(navArea, number, year),
		NavArea:     navArea,
		MsgNumber:   number,
		MsgYear:     year,
		Content:     text,
		Description: description,
		Coordinates: geometries,
		Source:      source,
	}
}

// messageNumber returns the first number/year pair in text.
func messageNumber(text string) (string, string) {
	m := msgNumberRe.FindStringSubmatch(text)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// memorandumSlug is the first word of a memorandum name, alphanumerics only.
func memorandumSlug(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "MEMO"
	}
	slug := nonAlnumRe.ReplaceAllString(fields[0], "")
	if slug == "" {
		return "MEMO"
	}
	return strings.ToUpper(slug)
}

// WarningID produces a deterministic ID from the area code and message
// number, so a cancellation reference resolves to the ID of its target.
func WarningID(navArea, number, year string) string {
	year = normalizeYear(year)
	hash := sha256.Sum256([]byte(navArea + "|" + number + "|" + year))
	prefix := strings.ToLower(strings.Trim(nonAlnumRe.ReplaceAllString(navArea, "-"), "-"))
	return prefix + "-" + hex.EncodeToString(hash[:8])
}

// normalizeYear folds four-digit years to two digits so "1234/2024" and
// "1234/24" identify the same message.
func normalizeYear(year string) string {
	if len(year) == 4 {
		return year[2:]
	}
	return year
}
