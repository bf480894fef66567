// Package app wires the activity source and the domain calculations into the
// evaluation used by the HTTP API and the report command.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/okian/ignite/internal/adapters/source"
	"github.com/okian/ignite/internal/domain/period"
	"github.com/okian/ignite/pkg/logger"
	"github.com/okian/ignite/pkg/metrics"
)

// Loader provides the activity log for an evaluation.
type Loader interface {
	Load(ctx context.Context, in source.Input) (source.Table, error)
}

// Service evaluates progress. It holds no mutable state and is safe for
// concurrent use.
type Service struct {
	loader   Loader
	now      func() time.Time
	defaults Settings
	logger   logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader replaces the activity source.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithClock sets the clock used for "now".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaults sets the settings returned by Defaults.
func WithDefaults(d Settings) Option {
	return func(s *Service) { s.defaults = d }
}

// NewService creates a Service with the bundled loader and the wall clock.
func NewService(opts ...Option) *Service {
	s := &Service{
		now:      time.Now,
		defaults: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.loader == nil {
		s.loader = source.NewLoader(source.WithLogger(s.logger))
	}
	return s
}

// Defaults returns the configured default settings.
func (s *Service) Defaults() Settings { return s.defaults }

// Now returns the current instant in the organization timezone.
func (s *Service) Now() time.Time { return s.now().In(period.Location()) }

// Evaluate loads the activity log selected by in and computes progress for
// the current period. Missing required columns abort the evaluation; a
// failed URL is reported in Result.Warnings.
func (s *Service) Evaluate(ctx context.Context, settings Settings, in source.Input) (Result, error) {
	return s.EvaluateAt(ctx, settings, in, s.Now())
}

// EvaluateAt is Evaluate for the period containing now.
func (s *Service) EvaluateAt(ctx context.Context, settings Settings, in source.Input, now time.Time) (Result, error) {
	start := time.Now()
	mode := settings.Mode.Key()

	if err := settings.Validate(); err != nil {
		s.record(mode, "invalid_settings", start)
		return Result{}, err
	}

	if in.Now.IsZero() {
		in.Now = now
	}
	tbl, err := s.loader.Load(ctx, in)
	if err != nil {
		outcome := "load_error"
		if errors.Is(err, source.ErrMissingColumn) {
			outcome = "missing_column"
		}
		metrics.RecordInputError(outcome)
		s.record(mode, outcome, start)
		s.logger.Warn(ctx, "evaluation aborted", logger.String("reason", outcome), logger.Error(err))
		return Result{}, err
	}

	res, err := Evaluate(settings, tbl.Events, now)
	if err != nil {
		s.record(mode, "invalid_settings", start)
		return Result{}, err
	}
	res.Origin = string(tbl.Origin)
	res.Dropped = tbl.Dropped
	res.Warnings = append(res.Warnings, tbl.Warnings...)

	metrics.UpdateProgress(mode, res.Progress, res.TotalPoints, len(res.Events))
	s.record(mode, "ok", start)
	s.logger.Info(ctx, "progress evaluated",
		logger.String("mode", string(res.Mode)),
		logger.String("origin", res.Origin),
		logger.Int("events", len(res.Events)),
		logger.Int("total_points", res.TotalPoints),
		logger.Int("goal_points", res.Goal),
		logger.Float64("progress", res.Progress),
		logger.Duration("took", time.Since(start)))

	return res, nil
}

func (s *Service) record(mode, outcome string, start time.Time) {
	metrics.RecordEvaluation(mode, outcome, float64(time.Since(start).Microseconds())/1000)
}
