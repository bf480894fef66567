package app

import (
	"fmt"

	"github.com/okian/ignite/internal/domain/period"
	"github.com/okian/ignite/internal/domain/scoring"
)

// DefaultGoalPoints is the target used when none is configured.
const DefaultGoalPoints = 60

// Settings is the explicit configuration of one evaluation.
type Settings struct {
	Mode       period.Mode
	GoalPoints int
	Weights    scoring.Weights
}

// DefaultSettings returns Weekly mode, a 60 point goal and the stock weights.
func DefaultSettings() Settings {
	return Settings{
		Mode:       period.Weekly,
		GoalPoints: DefaultGoalPoints,
		Weights:    scoring.DefaultWeights(),
	}
}

// Validate checks the mode and goal. Weights are validated when built.
func (s Settings) Validate() error {
	if _, err := period.ParseMode(string(s.Mode)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if s.GoalPoints < 1 {
		return fmt.Errorf("%w: goal must be at least 1, got %d", ErrInvalidSettings, s.GoalPoints)
	}
	for action, w := range s.Weights.Map() {
		if w < 0 {
			return fmt.Errorf("%w: %w: %s=%d", ErrInvalidSettings, scoring.ErrNegativeWeight, action, w)
		}
	}
	return nil
}
