package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// cancelRefRe matches a reference to another warning being cancelled,
	// e.g. "CANCEL HYDROPAC 1234/24" or "CANCEL NAVAREA IV 567/24".
	cancelRefRe = regexp.MustCompile(`\bCANCEL\s+((?:NAVAREA\s+[IVXL]+|HYDRO[A-Z]+)\s+\d{1,4}/\d{2,4})`)

	// cancelThisRe matches the self-expiry line and its date-time group.
	cancelThisRe = regexp.MustCompile(`\bCANCEL\s+THIS\s+(?:MSG|MESSAGE)\s+(\d{6}Z\s+[A-Z]{3}\s+\d{2,4})`)

	// dtgRe matches a date-time group such as "201530Z NOV 24".
	dtgRe = regexp.MustCompile(`\b\d{6}Z\s+[A-Z]{3}\s+\d{2,4}\b`)

	refPartsRe = regexp.MustCompile(`^(NAVAREA\s+[IVXL]+|HYDRO[A-Z]+)\s+(\d{1,4})/(\d{2,4})$`)
)

// ErrEmptyMemorandum is returned when a raw event carries no bulletin text.
var ErrEmptyMemorandum = errors.New("memorandum has no text")

// ParseRawEvent decodes a raw message into a memorandum. JSON payloads use
// the collector's RawMemorandum shape; anything else is taken as plain text,
// named by the "memorandum" header or the message key.
func ParseRawEvent(raw RawEvent) (RawMemorandum, error) {
	var memo RawMemorandum
	trimmed := strings.TrimSpace(string(raw.Value))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(raw.Value, &memo); err != nil {
			return RawMemorandum{}, fmt.Errorf("parse raw event: %w", err)
		}
	} else {
		memo.Text = trimmed
	}

	if memo.Name == "" {
		memo.Name = raw.Headers["memorandum"]
	}
	if memo.Name == "" {
		memo.Name = string(raw.Key)
	}
	if memo.FetchedAt == nil && !raw.Timestamp.IsZero() {
		ts := raw.Timestamp.UTC()
		memo.FetchedAt = &ts
	}
	if strings.TrimSpace(memo.Text) == "" {
		return RawMemorandum{}, fmt.Errorf("parse raw event: %w", ErrEmptyMemorandum)
	}
	return memo, nil
}

// EnrichWarningRecord derives the cancellation references and date-time
// groups and stamps the processing time. Timestamp is the first date-time
// group that is not the expiry.
func EnrichWarningRecord(rec WarningRecord) WarningRecord {
	content := rec.Content

	rec.Cancels = nil
	for _, m := range cancelRefRe.FindAllStringSubmatch(content, -1) {
		ref := normalizeSpace(m[1])
		if ownHeader(rec, ref) {
			continue
		}
		rec.Cancels = append(rec.Cancels, ref)
	}
	rec.Cancelled = strings.HasPrefix(strings.TrimSpace(content), "CANCEL ") && len(rec.Cancels) > 0

	if m := cancelThisRe.FindStringSubmatch(content); m != nil {
		rec.Expires = normalizeSpace(m[1])
	}
	for _, dtg := range dtgRe.FindAllString(content, -1) {
		if dtg = normalizeSpace(dtg); dtg != rec.Expires {
			rec.Timestamp = dtg
			break
		}
	}

	rec.ProcessedAt = clock.Now()
	return rec
}

// ownHeader reports whether ref names the record itself.
func ownHeader(rec WarningRecord, ref string) bool {
	id, ok := ReferenceID(ref)
	return ok && id == rec.ID && !strings.HasPrefix(strings.TrimSpace(rec.Content), "CANCEL ")
}

// ReferenceID resolves a reference such as "HYDROPAC 1234/24" to the ID
// the referenced warning was stored under.
func ReferenceID(ref string) (string, bool) {
	m := refPartsRe.FindStringSubmatch(normalizeSpace(ref))
	if m == nil {
		return "", false
	}
	return WarningID(m[1], m[2], m[3]), true
}

// SerializeWarning marshals a warning record into an output event keyed by
// its ID.
func SerializeWarning(rec WarningRecord) (OutputEvent, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize warning record: %w", err)
	}
	return OutputEvent{
		Key:   []byte(rec.ID),
		Value: data,
		Headers: map[string]string{
			"navarea":      rec.NavArea,
			"source":       rec.Source,
			"processed_at": rec.ProcessedAt.Format(time.RFC3339),
		},
		Record: rec,
	}, nil
}
