package app

import (
	"time"

	"github.com/okian/ignite/internal/domain/model"
	"github.com/okian/ignite/internal/domain/period"
	"github.com/okian/ignite/internal/domain/progress"
	"github.com/okian/ignite/internal/domain/scoring"
	"github.com/okian/ignite/internal/domain/summary"
	"github.com/okian/ignite/internal/domain/types"
)

// Window is the active period as reported to callers.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Result is everything shown for one evaluation.
type Result struct {
	Mode        period.Mode         `json:"mode"`
	Goal        int                 `json:"goal_points"`
	Weights     map[string]int      `json:"weights"`
	Window      Window              `json:"window"`
	TotalPoints int                 `json:"total_points"`
	Progress    float64             `json:"progress"`
	Percent     int                 `json:"percent"`
	Events      []model.ScoredEvent `json:"events"`
	Activity    []types.Entry       `json:"activity"`
	Leaderboard []types.Entry       `json:"leaderboard"`
	Timeline    []types.DayTotal    `json:"timeline"`
	Origin      string              `json:"origin,omitempty"`
	Dropped     int                 `json:"dropped_rows"`
	Warnings    []string            `json:"warnings"`
}

// Evaluate computes period progress for events at instant now. It has no
// side effects.
func Evaluate(s Settings, events []model.Event, now time.Time) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	mode, _ := period.ParseMode(string(s.Mode))
	win, err := period.Bounds(mode, now)
	if err != nil {
		return Result{}, err
	}

	scored := scoring.Score(events, s.Weights, win)
	total, ratio := progress.Compute(scored, s.GoalPoints)

	return Result{
		Mode:        mode,
		Goal:        s.GoalPoints,
		Weights:     s.Weights.Map(),
		Window:      Window{Start: win.Start, End: win.End, Label: win.Label()},
		TotalPoints: total,
		Progress:    ratio,
		Percent:     progress.Percent(ratio),
		Events:      scored,
		Activity:    summary.ByAction(scored),
		Leaderboard: summary.ByRep(scored),
		Timeline:    summary.Timeline(scored),
		Warnings:    []string{},
	}, nil
}
