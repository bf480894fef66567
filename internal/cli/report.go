package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/ignite/internal/adapters/source"
	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/cli/formatter"
	"github.com/okian/ignite/internal/domain/period"
	"github.com/okian/ignite/internal/render"
)

type reportOptions struct {
	mode    string
	goal    int
	weights *weightFlag
	file    string
	url     string
	now     string
	png     string
	plain   bool
	json    bool
}

func newReportCmd(a *App) *cobra.Command {
	opts := reportOptions{weights: newWeightFlag()}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print progress for the current period",
		Example: `  ignite report --mode monthly --goal 120
  ignite report --file activity.csv --weight demo=4 --weight webinar=2
  ignite report --url https://example.com/log.csv --png rocket.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.mode, "mode", "", "period: weekly or monthly (default from config)")
	f.IntVar(&opts.goal, "goal", 0, "goal points for the period (default from config)")
	f.Var(opts.weights, "weight", "override an action weight, repeatable")
	f.StringVar(&opts.file, "file", "", "CSV activity log, - for stdin")
	f.StringVar(&opts.url, "url", "", "CSV activity log URL")
	f.StringVar(&opts.now, "now", "", "evaluate at this RFC 3339 instant instead of the clock")
	f.StringVar(&opts.png, "png", "", "also write the rocket image to this path")
	f.BoolVar(&opts.plain, "plain", false, "disable colors")
	f.BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("plain", "json")

	return cmd
}

func runReport(cmd *cobra.Command, a *App, opts reportOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	settings, err := opts.settings(a.Evaluator.Defaults())
	if err != nil {
		return err
	}

	now := a.Evaluator.Now()
	if opts.now != "" {
		if now, err = time.Parse(time.RFC3339, opts.now); err != nil {
			return fmt.Errorf("--now: %w", err)
		}
	}

	in := source.Input{URL: opts.url}
	if in.URL == "" {
		in.URL = a.DefaultURL
	}
	switch opts.file {
	case "":
	case "-":
		in.Upload = cmd.InOrStdin()
	default:
		f, err := os.Open(opts.file)
		if err != nil {
			return fmt.Errorf("--file: %w", err)
		}
		defer f.Close()
		in.Upload = f
	}

	res, err := a.Evaluator.EvaluateAt(ctx, settings, in, now)
	if err != nil {
		return err
	}

	if opts.png != "" {
		if err := writeImage(opts.png, res.Progress, a.Image); err != nil {
			return err
		}
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	plain := opts.plain || (a.IsTerminal != nil && !a.IsTerminal())
	_, err = io.WriteString(out, formatter.New(out, plain).Report(res))
	return err
}

func (o reportOptions) settings(defaults app.Settings) (app.Settings, error) {
	s := defaults
	if strings.TrimSpace(o.mode) != "" {
		mode, err := period.ParseMode(o.mode)
		if err != nil {
			return app.Settings{}, fmt.Errorf("--mode: %w", err)
		}
		s.Mode = mode
	}
	if o.goal != 0 {
		s.GoalPoints = o.goal
	}
	w, err := o.weights.apply(s.Weights)
	if err != nil {
		return app.Settings{}, fmt.Errorf("--weight: %w", err)
	}
	s.Weights = w
	return s, s.Validate()
}

func writeImage(path string, progress float64, opts []render.Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("--png: %w", err)
	}
	if err := render.WritePNG(f, render.Rocket(progress, opts...)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
