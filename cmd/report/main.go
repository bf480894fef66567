// Command report prints progress toward the period goal in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/okian/ignite/internal/adapters/source"
	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/cli"
	"github.com/okian/ignite/internal/config"
	"github.com/okian/ignite/internal/render"
	"github.com/okian/ignite/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	// stdout belongs to the report.
	opts := []logger.InitOption{logger.WithWriter(os.Stderr)}
	if strings.EqualFold(cfg.LogFormat, "json") {
		opts = append(opts, logger.WithJSON())
	}
	if err := logger.Init(opts...); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}

	defaults, err := cfg.Settings()
	if err != nil {
		return err
	}

	l := logger.Get()
	svc := app.NewService(
		app.WithLogger(l.Named("app")),
		app.WithDefaults(defaults),
		app.WithLoader(source.NewLoader(
			source.WithLogger(l.Named("source")),
			source.WithSamplePath(cfg.SamplePath),
			source.WithFetchTimeout(cfg.FetchTimeout()),
			source.WithMaxBytes(cfg.MaxUploadBytes),
			source.WithSampleRebase(cfg.SampleRebase),
		)),
	)

	root := cli.NewRootCmd(&cli.App{
		Evaluator:  svc,
		DefaultURL: cfg.SourceURL,
		Image:      []render.Option{render.WithSize(cfg.ImageWidth, cfg.ImageHeight)},
		IsTerminal: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	})
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
