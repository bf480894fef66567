// Package period computes the active reporting window.
//
// All windows are half-open [Start, End) and expressed in the organization's
// fixed timezone, America/Chicago.
package period

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // the container images carry no zoneinfo
)

// Mode selects the period length.
type Mode string

// Supported modes.
const (
	Weekly  Mode = "Weekly"
	Monthly Mode = "Monthly"
)

// Zone is the organization timezone all windows are computed in.
const Zone = "America/Chicago"

const labelLayout = "Jan 02, 2006"

var location = mustLoad(Zone)

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("period: load %s: %v", name, err))
	}
	return loc
}

// Location returns the fixed organization timezone.
func Location() *time.Location { return location }

// ParseMode accepts "weekly" or "monthly" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Key returns the lower-case form used in metric labels and query strings.
func (m Mode) Key() string { return strings.ToLower(string(m)) }

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Label renders the window as "Jan 01, 2024 → Jan 07, 2024", closing on the
// last second inside the window.
func (w Window) Label() string {
	last := w.End.Add(-time.Second)
	return w.Start.Format(labelLayout) + " → " + last.Format(labelLayout)
}

// Bounds returns the window of the given mode that contains now.
//
// Weekly windows start on the most recent Monday at midnight and span seven
// calendar days. Monthly windows start on the first of the month at midnight
// and end on the first of the next month.
func Bounds(mode Mode, now time.Time) (Window, error) {
	now = now.In(location)
	y, m, d := now.Date()

	switch mode {
	case Weekly:
		sinceMonday := (int(now.Weekday()) + 6) % 7
		start := time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, location)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case Monthly:
		start := time.Date(y, m, 1, 0, 0, 0, 0, location)
		var end time.Time
		if m == time.December {
			end = time.Date(y+1, time.January, 1, 0, 0, 0, 0, location)
		} else {
			end = time.Date(y, m+1, 1, 0, 0, 0, 0, location)
		}
		return Window{Start: start, End: end}, nil
	default:
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
}
