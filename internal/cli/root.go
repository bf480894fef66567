// Package cli implements the ignite command line.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/ignite/internal/adapters/source"
	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/render"
)

// Evaluator computes progress for a settings value and a source.
type Evaluator interface {
	Defaults() app.Settings
	Now() time.Time
	EvaluateAt(ctx context.Context, settings app.Settings, in source.Input, now time.Time) (app.Result, error)
}

// App holds what the commands need.
type App struct {
	Evaluator Evaluator

	// DefaultURL is used when --url is not given.
	DefaultURL string

	// Image configures --png output.
	Image []render.Option

	// IsTerminal reports whether stdout is a terminal; colors are off otherwise.
	IsTerminal func() bool
}

// NewRootCmd creates the top-level "ignite" command.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ignite",
		Short:         "Sales activity progress toward a period goal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newReportCmd(a))
	return root
}
