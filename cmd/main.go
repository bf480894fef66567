package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/okian/ignite/internal/adapters/http/api"
	"github.com/okian/ignite/internal/adapters/http/swagger"
	"github.com/okian/ignite/internal/adapters/source"
	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/config"
	"github.com/okian/ignite/internal/render"
	"github.com/okian/ignite/pkg/logger"
	"github.com/okian/ignite/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logOpts []logger.InitOption
	if strings.EqualFold(cfg.LogFormat, "json") {
		logOpts = append(logOpts, logger.WithJSON())
	}
	if err := logger.Init(logOpts...); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	_ = logger.SetLevelString(cfg.LogLevel)

	l := logger.Get()

	// Before the routes exist: /healthz serves the registry built here.
	metrics.Configure(cfg.MetricsOptions()...)

	handler, err := newHandler(ctx, cfg, l)
	if err != nil {
		l.Error(ctx, "invalid configuration", logger.Error(err))
		os.Exit(1)
	}

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		l.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	l.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	l.Info(ctx, "server stopped")
}

// newHandler builds the service and the full route tree for cfg.
func newHandler(ctx context.Context, cfg *config.Config, l logger.Logger) (http.Handler, error) {
	defaults, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	loader := source.NewLoader(
		source.WithLogger(l.Named("source")),
		source.WithSamplePath(cfg.SamplePath),
		source.WithFetchTimeout(cfg.FetchTimeout()),
		source.WithMaxBytes(cfg.MaxUploadBytes),
		source.WithSampleRebase(cfg.SampleRebase),
	)
	svc := app.NewService(
		app.WithLogger(l.Named("app")),
		app.WithLoader(loader),
		app.WithDefaults(defaults),
	)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	apiServer := api.NewServer(svc,
		api.WithDefaultURL(cfg.SourceURL),
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithImageOptions(render.WithSize(cfg.ImageWidth, cfg.ImageHeight)),
		api.WithLogger(l.Named("api")),
	)
	apiServer.Register(ctx, mux)

	return api.Wrap(mux, l.Named("http")), nil
}

// startSystemMetricsUpdater samples runtime stats until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var avgPauseMs float64
	if m.NumGC > 0 {
		avgPauseMs = float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
	}
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine(), avgPauseMs)
}
