// Package progress turns scored events into a goal fraction.
package progress

import "github.com/okian/ignite/internal/domain/model"

// Compute sums the points of scored and returns the total together with the
// fraction of goal reached, capped at 1. A goal of zero or less yields 0.
func Compute(scored []model.ScoredEvent, goal int) (totalPoints int, progress float64) {
	for _, s := range scored {
		totalPoints += s.Points
	}
	if goal <= 0 {
		return totalPoints, 0
	}
	progress = float64(totalPoints) / float64(goal)
	if progress > 1 {
		progress = 1
	}
	return totalPoints, progress
}

// Percent returns progress as a whole percentage, truncated.
func Percent(progress float64) int {
	return int(progress * 100)
}
