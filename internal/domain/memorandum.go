package domain

import (
	"regexp"
	"strings"
)

// MemorandumFormat names the concatenation layout detected in a raw bulletin.
type MemorandumFormat string

const (
	FormatHydropacConcatenated MemorandumFormat = "hydropac_concatenated"
	FormatNumberedWarnings     MemorandumFormat = "numbered_warnings"
	FormatMultipleMemorandums  MemorandumFormat = "multiple_memorandums"
	FormatSingleWarning        MemorandumFormat = "single_warning"
)

var (
	hydropacHeaderRe = regexp.MustCompile(`(?m)^[ \t]*(?:CANCEL[ \t]+)?HYDROPAC[ \t]+\d+/\d+`)
	numberedItemRe   = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]`)
	memoHeaderRe     = regexp.MustCompile(`(?:NAVAREA(?:[ \t]+[IVXL]+)?|HYDRO[A-Z]*)[ \t]+\d+/\d+`)
)

// splitStrategy is one detection rule: detect reports whether the layout
// applies, split cuts the blob into warnings.
type splitStrategy struct {
	format MemorandumFormat
	detect func(text string) bool
	split  func(text string) []string
}

// splitStrategies are evaluated top to bottom; the first detected layout wins.
var splitStrategies = []splitStrategy{
	{
		format: FormatHydropacConcatenated,
		detect: func(text string) bool { return len(hydropacHeaderRe.FindAllStringIndex(text, 2)) > 1 },
		split:  func(text string) []string { return splitAtLines(text, hydropacHeaderRe) },
	},
	{
		format: FormatNumberedWarnings,
		detect: isNumberedList,
		split:  func(text string) []string { return splitAtLines(text, numberedItemRe) },
	},
	{
		format: FormatMultipleMemorandums,
		detect: func(text string) bool { return len(memoHeaderRe.FindAllStringIndex(text, 2)) > 1 },
		split:  func(text string) []string { return splitAtLines(text, memoHeaderRe) },
	},
}

// MemorandumSplit is the result of splitting one raw memorandum.
type MemorandumSplit struct {
	Format   MemorandumFormat
	Warnings []string
}

// SplitMemorandum detects the layout of a raw bulletin and cuts it into
// warning texts. It never fails: when the detected layout yields nothing the
// remaining layouts are tried, and the whole blob becomes a single warning
// as a last resort.
func SplitMemorandum(text string) MemorandumSplit {
	start := len(splitStrategies)
	for i, s := range splitStrategies {
		if s.detect(text) {
			start = i
			break
		}
	}

	for _, s := range splitStrategies[start:] {
		if warnings := s.split(text); len(warnings) > 0 {
			return MemorandumSplit{Format: s.format, Warnings: warnings}
		}
	}
	return MemorandumSplit{Format: FormatSingleWarning, Warnings: []string{strings.TrimSpace(text)}}
}

// isNumberedList reports whether text is a list of numbered warnings. A
// warning header ahead of the first item makes the items the body of that
// one warning instead.
func isNumberedList(text string) bool {
	first := numberedItemRe.FindStringIndex(text)
	if first == nil {
		return false
	}
	return !memoHeaderRe.MatchString(text[:first[0]])
}

// splitAtLines cuts text at the start of every line containing a header
// match. Each warning runs from its header line up to the next one; text
// before the first header is preamble and is dropped.
func splitAtLines(text string, header *regexp.Regexp) []string {
	matches := header.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	cuts := make([]int, 0, len(matches))
	for _, m := range matches {
		lineStart := strings.LastIndexByte(text[:m[0]], '\n') + 1
		if len(cuts) > 0 && cuts[len(cuts)-1] == lineStart {
			continue
		}
		cuts = append(cuts, lineStart)
	}

	warnings := make([]string, 0, len(cuts))
	for i, from := range cuts {
		to := len(text)
		if i+1 < len(cuts) {
			to = cuts[i+1]
		}
		if w := strings.TrimSpace(text[from:to]); w != "" {
			warnings = append(warnings, w)
		}
	}
	return warnings
}
