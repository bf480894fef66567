// Package model contains domain models passed between layers.
package model

import "time"

// UnknownRep is used when the source log has no rep column.
const UnknownRep = "Unknown"

// DateLayout is the layout of Event.Date.
const DateLayout = "2006-01-02"

// Event is one normalized row of the activity log. Timestamp is already in
// the organization's timezone; the derived fields are computed from it once.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Rep       string    `json:"rep"`
	Action    string    `json:"action"`
	Notes     string    `json:"notes,omitempty"`

	Date    string `json:"date"`    // calendar date, YYYY-MM-DD
	Week    int    `json:"week"`    // ISO week number
	Year    int    `json:"year"`    // calendar year
	Weekday string `json:"weekday"` // e.g. "Monday"
}

// NewEvent builds an Event from a localized timestamp and fills the derived
// calendar fields.
func NewEvent(ts time.Time, rep, action, notes string) Event {
	_, week := ts.ISOWeek()
	return Event{
		Timestamp: ts,
		Rep:       rep,
		Action:    action,
		Notes:     notes,
		Date:      ts.Format(DateLayout),
		Week:      week,
		Year:      ts.Year(),
		Weekday:   ts.Weekday().String(),
	}
}

// ScoredEvent is an Event inside the active period with its point value.
// Points currently always equals Weight.
type ScoredEvent struct {
	Event
	Weight int `json:"weight"`
	Points int `json:"points"`
}
