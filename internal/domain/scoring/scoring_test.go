package scoring_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/ignite/internal/domain/model"
	"github.com/okian/ignite/internal/domain/period"
	scoring "github.com/okian/ignite/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func at(day, hour int) time.Time {
	return time.Date(2024, time.January, day, hour, 0, 0, 0, period.Location())
}

func firstWeek() period.Window {
	return period.Window{Start: at(1, 0), End: at(8, 0)}
}

func TestWeights(t *testing.T) {
	Convey("Given the default weights", t, func() {
		w := scoring.DefaultWeights()

		Convey("Then the stock actions should have their points", func() {
			So(w.Lookup("call"), ShouldEqual, 1)
			So(w.Lookup("demo"), ShouldEqual, 3)
			So(w.Lookup("pilot"), ShouldEqual, 6)
			So(w.Lookup("deal"), ShouldEqual, 12)
		})

		Convey("And lookups should ignore case and surrounding space", func() {
			So(w.Lookup("DEMO "), ShouldEqual, 3)
			So(w.Lookup("  Deal"), ShouldEqual, 12)
		})

		Convey("And unknown actions should score zero", func() {
			So(w.Lookup("email"), ShouldEqual, 0)
			So(w.Lookup(""), ShouldEqual, 0)
		})

		Convey("And actions should list in weight order", func() {
			So(w.Actions(), ShouldResemble, []string{"call", "demo", "pilot", "deal"})
		})

		Convey("And each call should return an independent table", func() {
			m := w.Map()
			m["call"] = 100
			So(scoring.DefaultWeights().Lookup("call"), ShouldEqual, 1)
			So(w.Lookup("call"), ShouldEqual, 1)
		})
	})

	Convey("Given a custom table", t, func() {
		Convey("When keys need normalizing", func() {
			w, err := scoring.NewWeights(map[string]int{" Call ": 2, "WEBINAR": 4, "  ": 9})
			So(err, ShouldBeNil)

			Convey("Then lookups should use the normalized keys", func() {
				So(w.Lookup("call"), ShouldEqual, 2)
				So(w.Lookup("webinar"), ShouldEqual, 4)
				So(w.Map(), ShouldResemble, map[string]int{"call": 2, "webinar": 4})
			})
		})

		Convey("When a weight is negative", func() {
			_, err := scoring.NewWeights(map[string]int{"call": -1})

			Convey("Then ErrNegativeWeight should be returned", func() {
				So(errors.Is(err, scoring.ErrNegativeWeight), ShouldBeTrue)
			})
		})

		Convey("When overriding one action", func() {
			base := scoring.DefaultWeights()
			w, err := base.With("Demo", 5)
			So(err, ShouldBeNil)

			Convey("Then the copy should change and the original should not", func() {
				So(w.Lookup("demo"), ShouldEqual, 5)
				So(base.Lookup("demo"), ShouldEqual, 3)
			})

			Convey("And a negative override should be rejected", func() {
				_, err := base.With("demo", -3)
				So(errors.Is(err, scoring.ErrNegativeWeight), ShouldBeTrue)
			})
		})
	})

	Convey("Given the zero value", t, func() {
		var w scoring.Weights
		So(w.Lookup("deal"), ShouldEqual, 0)
		So(w.Actions(), ShouldBeEmpty)
	})
}

func TestScore(t *testing.T) {
	Convey("Given events around the first week of 2024", t, func() {
		events := []model.Event{
			model.NewEvent(at(1, 4), "alice", "call", ""),
			model.NewEvent(at(1, 5), "alice", "DEMO ", ""),
			model.NewEvent(at(3, 9), "bob", "email", "follow-up"),
			model.NewEvent(at(8, 0), "bob", "deal", ""),
			model.NewEvent(at(1, 0).Add(-time.Nanosecond), "carol", "pilot", ""),
		}

		Convey("When scoring with the default weights", func() {
			scored := scoring.Score(events, scoring.DefaultWeights(), firstWeek())

			Convey("Then only events inside the window should remain, in order", func() {
				So(len(scored), ShouldEqual, 3)
				So(scored[0].Action, ShouldEqual, "call")
				So(scored[1].Action, ShouldEqual, "DEMO ")
				So(scored[2].Action, ShouldEqual, "email")
			})

			Convey("And points should equal the looked-up weight", func() {
				So(scored[0].Weight, ShouldEqual, 1)
				So(scored[1].Weight, ShouldEqual, 3)
				So(scored[2].Weight, ShouldEqual, 0)
				for _, s := range scored {
					So(s.Points, ShouldEqual, s.Weight)
				}
			})
		})

		Convey("When every event falls outside the window", func() {
			later := period.Window{Start: at(20, 0), End: at(27, 0)}
			scored := scoring.Score(events, scoring.DefaultWeights(), later)

			Convey("Then the result should be empty, not nil", func() {
				So(scored, ShouldNotBeNil)
				So(scored, ShouldBeEmpty)
			})
		})
	})

	Convey("Given arbitrary weight tables", t, func() {
		tables := []map[string]int{
			{"call": 0, "demo": 0},
			{"call": 7, "deal": 100, "meeting": 2},
			{},
		}
		actions := []string{"call", " Call", "deal", "meeting", "MEETING", "pilot", "", "??"}

		Convey("Then every scored event should carry W[normalize(action)] or 0", func() {
			for _, raw := range tables {
				w, err := scoring.NewWeights(raw)
				So(err, ShouldBeNil)

				events := make([]model.Event, 0, len(actions))
				for i, a := range actions {
					events = append(events, model.NewEvent(at(2, i), "rep", a, ""))
				}
				for _, s := range scoring.Score(events, w, firstWeek()) {
					So(s.Points, ShouldEqual, raw[scoring.Normalize(s.Action)])
				}
			}
		})
	})
}
