package source

import (
	"math"
	"time"

	"github.com/okian/ignite/internal/domain/model"
	"github.com/okian/ignite/internal/domain/period"
)

const hoursPerDay = 24

// Rebase moves events by a whole number of weeks so the latest one falls in
// the week containing now. Weekdays and local times of day are kept, so the
// shape of the log is unchanged. The input slice is not modified.
func Rebase(events []model.Event, now time.Time) []model.Event {
	if len(events) == 0 {
		return events
	}
	latest := events[0].Timestamp
	for _, e := range events[1:] {
		if e.Timestamp.After(latest) {
			latest = e.Timestamp
		}
	}

	// Weekly bounds never fail.
	from, _ := period.Bounds(period.Weekly, latest)
	to, _ := period.Bounds(period.Weekly, now)
	// Round away the hour a DST change adds or removes.
	days := int(math.Round(to.Start.Sub(from.Start).Hours() / hoursPerDay))
	if days == 0 {
		return events
	}

	out := make([]model.Event, len(events))
	for i, e := range events {
		ts := e.Timestamp.In(period.Location()).AddDate(0, 0, days)
		out[i] = model.NewEvent(ts, e.Rep, e.Action, e.Notes)
	}
	return out
}
