// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and the environment on top of the defaults.
// - Errors returned by Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"time"

	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/domain/period"
	"github.com/okian/ignite/internal/domain/scoring"
	"github.com/okian/ignite/pkg/metrics"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Mode is the default period, Weekly or Monthly.
	Mode string `koanf:"mode"`

	// GoalPoints is the default target for a period.
	GoalPoints int `koanf:"goal_points"`

	// Weights maps action names to their point values.
	Weights map[string]int `koanf:"weights"`

	// SourceURL is the CSV URL used when a request names none.
	SourceURL string `koanf:"source_url"`

	// SamplePath replaces the bundled sample log.
	SamplePath string `koanf:"sample_path"`

	// SampleRebase moves the sample into the evaluated week so the fallback
	// log is never empty.
	SampleRebase bool `koanf:"sample_rebase"`

	// FetchTimeoutMS bounds a single CSV URL fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// MaxUploadBytes caps uploads and fetched bodies.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// ImageWidth and ImageHeight size the rocket image.
	ImageWidth  int `koanf:"image_width"`
	ImageHeight int `koanf:"image_height"`

	// MetricsEnabled switches Prometheus recording.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsLabels are constant labels added to every series.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsRefreshMS is the runtime gauge sampling period.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		Mode:           string(period.Weekly),
		GoalPoints:     app.DefaultGoalPoints,
		Weights:        scoring.DefaultWeights().Map(),
		FetchTimeoutMS: 10_000,
		MaxUploadBytes: 10 << 20,
		ImageWidth:     700,
		ImageHeight:    900,

		SampleRebase:     true,
		MetricsEnabled:   true,
		MetricsNamespace: "ignite",
		MetricsRefreshMS: 10_000,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// MetricsOptions returns the metrics manager options for this config.
func (c *Config) MetricsOptions() []metrics.Option {
	return []metrics.Option{
		metrics.WithMetricsEnabled(c.MetricsEnabled),
		metrics.WithNamespace(c.MetricsNamespace),
		metrics.WithCustomLabels(c.MetricsLabels),
		metrics.WithRefreshInterval(time.Duration(c.MetricsRefreshMS) * time.Millisecond),
	}
}

// Settings converts the defaults into evaluation settings.
func (c *Config) Settings() (app.Settings, error) {
	mode, err := period.ParseMode(c.Mode)
	if err != nil {
		return app.Settings{}, err
	}
	weights, err := scoring.NewWeights(c.Weights)
	if err != nil {
		return app.Settings{}, err
	}
	s := app.Settings{Mode: mode, GoalPoints: c.GoalPoints, Weights: weights}
	return s, s.Validate()
}
