package app_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/domain/model"
	"github.com/okian/ignite/internal/domain/period"
	"github.com/okian/ignite/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func utcEvent(ts, rep, action string) model.Event {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return model.NewEvent(t.In(period.Location()), rep, action, "")
}

func threeRows() []model.Event {
	return []model.Event{
		utcEvent("2024-01-01T10:00:00Z", "alice", "call"),
		utcEvent("2024-01-01T11:00:00Z", "alice", "DEMO "),
		utcEvent("2024-01-08T10:00:00Z", "bob", "deal"),
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, period.Location())

	Convey("Given the three-row log and default settings", t, func() {
		res, err := app.Evaluate(app.DefaultSettings(), threeRows(), now)
		So(err, ShouldBeNil)

		Convey("Then only this week's rows should count", func() {
			So(res.Window.Start.Format("2006-01-02"), ShouldEqual, "2024-01-01")
			So(res.Window.End.Format("2006-01-02"), ShouldEqual, "2024-01-08")
			So(res.Events, ShouldHaveLength, 2)
			So(res.TotalPoints, ShouldEqual, 4)
			So(math.Abs(res.Progress-4.0/60.0), ShouldBeLessThan, 1e-9)
			So(res.Percent, ShouldEqual, 6)
		})

		Convey("Then the summaries should describe the same rows", func() {
			So(res.Leaderboard, ShouldHaveLength, 1)
			So(res.Leaderboard[0].Key, ShouldEqual, "alice")
			So(res.Leaderboard[0].Points, ShouldEqual, 4)
			So(res.Activity, ShouldHaveLength, 2)
			So(res.Activity[0].Key, ShouldEqual, "DEMO ")
			So(res.Timeline, ShouldHaveLength, 1)
			So(res.Window.Label, ShouldEqual, "Jan 01, 2024 → Jan 07, 2024")
		})
	})

	Convey("Given monthly mode", t, func() {
		s := app.DefaultSettings()
		s.Mode = period.Monthly
		res, err := app.Evaluate(s, threeRows(), now)

		Convey("Then the whole month should count", func() {
			So(err, ShouldBeNil)
			So(res.TotalPoints, ShouldEqual, 16)
			So(res.Window.End.Month(), ShouldEqual, time.February)
		})
	})

	Convey("Given a week with no activity", t, func() {
		later := time.Date(2024, time.March, 20, 12, 0, 0, 0, period.Location())
		res, err := app.Evaluate(app.DefaultSettings(), threeRows(), later)

		Convey("Then the totals should be zero", func() {
			So(err, ShouldBeNil)
			So(res.TotalPoints, ShouldEqual, 0)
			So(res.Progress, ShouldEqual, 0.0)
			So(res.Events, ShouldBeEmpty)
			So(res.Leaderboard, ShouldBeEmpty)
			So(res.Warnings, ShouldNotBeNil)
		})
	})

	Convey("Given custom weights", t, func() {
		w, err := scoring.NewWeights(map[string]int{"call": 10, "demo": 0})
		So(err, ShouldBeNil)
		res, err := app.Evaluate(app.Settings{Mode: period.Weekly, GoalPoints: 10, Weights: w}, threeRows(), now)

		Convey("Then progress should reach the goal", func() {
			So(err, ShouldBeNil)
			So(res.TotalPoints, ShouldEqual, 10)
			So(res.Progress, ShouldEqual, 1.0)
			So(res.Percent, ShouldEqual, 100)
		})
	})
}

func TestSettingsValidate(t *testing.T) {
	Convey("Given settings", t, func() {
		Convey("The defaults should be valid", func() {
			So(app.DefaultSettings().Validate(), ShouldBeNil)
		})

		Convey("A goal below one should be rejected", func() {
			s := app.DefaultSettings()
			s.GoalPoints = 0
			So(errors.Is(s.Validate(), app.ErrInvalidSettings), ShouldBeTrue)
		})

		Convey("An unknown mode should be rejected", func() {
			s := app.DefaultSettings()
			s.Mode = "Quarterly"
			err := s.Validate()
			So(errors.Is(err, app.ErrInvalidSettings), ShouldBeTrue)
			So(errors.Is(err, period.ErrUnknownMode), ShouldBeTrue)
		})

		Convey("Evaluate should refuse them too", func() {
			s := app.DefaultSettings()
			s.GoalPoints = -5
			_, err := app.Evaluate(s, nil, time.Now())
			So(errors.Is(err, app.ErrInvalidSettings), ShouldBeTrue)
		})
	})
}
