package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/ignite/internal/domain/model"
)

// Column names after normalization.
const (
	colTimestamp = "timestamp"
	colRep       = "rep"
	colAction    = "action"
	colNotes     = "notes"
)

// timestampLayouts are tried in order. Values without a zone are read as UTC.
// Fractional seconds are accepted after the seconds field in every layout.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02 15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseTimestamp reads s with the supported layouts and returns it in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	// "2024-01-01 10:00:00 UTC" is what many exports write for naive UTC.
	if base, ok := cutSuffixFold(s, " utc"); ok {
		s = strings.TrimSpace(base)
	}
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

func cutSuffixFold(s, suffix string) (string, bool) {
	if len(s) < len(suffix) || !strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s, false
	}
	return s[:len(s)-len(suffix)], true
}

// NormalizeHeader trims and lower-cases a column name. A UTF-8 byte order
// mark, as written by spreadsheet exports, is removed.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSpace(h))
}

// Parse reads a CSV activity log. Required columns are timestamp and action;
// a missing rep column becomes "Unknown". Rows whose timestamp cannot be
// parsed are skipped and counted in dropped.
func Parse(r io.Reader, loc *time.Location) (events []model.Event, dropped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("%w: no header row", ErrMalformed)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	if _, ok := cols[colTimestamp]; !ok {
		return nil, 0, fmt.Errorf("%w: csv must include a '%s' column", ErrMissingColumn, colTimestamp)
	}
	if _, ok := cols[colAction]; !ok {
		return nil, 0, fmt.Errorf("%w: csv must include an '%s' column", ErrMissingColumn, colAction)
	}

	get := func(row []string, name string) (string, bool) {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return "", ok
		}
		return row[idx], true
	}

	events = make([]model.Event, 0)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		raw, _ := get(row, colTimestamp)
		ts, ok := ParseTimestamp(raw, loc)
		if !ok {
			dropped++
			continue
		}
		rep, hasRep := get(row, colRep)
		if !hasRep {
			rep = model.UnknownRep
		}
		action, _ := get(row, colAction)
		notes, _ := get(row, colNotes)

		events = append(events, model.NewEvent(ts, rep, action, notes))
	}
	return events, dropped, nil
}
