// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/okian/ignite/internal/adapters/source"
	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/render"
	"github.com/okian/ignite/pkg/logger"
)

// Evaluator is what the handlers need from the application layer.
type Evaluator interface {
	Defaults() app.Settings
	Evaluate(ctx context.Context, settings app.Settings, in source.Input) (app.Result, error)
}

// Default request limits.
const (
	defaultMaxUploadBytes = 10 << 20
	multipartMemory       = 1 << 20
)

// Server wires HTTP routes for the progress API.
type Server struct {
	healthHandler    *HealthHandler
	evaluateHandler  *EvaluateHandler
	rocketHandler    *RocketHandler
	configHandler    *ConfigHandler
	dashboardHandler *dashboardHandler
}

type options struct {
	defaultURL string
	maxUpload  int64
	image      []render.Option
	logger     logger.Logger
}

// Option configures the Server.
type Option func(*options)

// WithDefaultURL sets the CSV URL used when a request names none.
func WithDefaultURL(u string) Option {
	return func(o *options) { o.defaultURL = u }
}

// WithMaxUploadBytes caps request bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxUpload = n
		}
	}
}

// WithImageOptions configures the rocket image.
func WithImageOptions(opts ...render.Option) Option {
	return func(o *options) { o.image = append(o.image, opts...) }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(eval Evaluator, opts ...Option) *Server {
	o := options{maxUpload: defaultMaxUploadBytes, logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	req := requestReader{defaults: eval.Defaults, defaultURL: o.defaultURL, maxUpload: o.maxUpload}
	return &Server{
		healthHandler:    NewHealthHandler(),
		evaluateHandler:  NewEvaluateHandler(eval, req, o.logger),
		rocketHandler:    NewRocketHandler(eval, req, o.logger, o.image...),
		configHandler:    NewConfigHandler(eval.Defaults, o.defaultURL),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/config", MetricsMiddleware(s.configHandler.HandleConfig, "config"))
	mux.HandleFunc("/evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("/rocket.png", MetricsMiddleware(s.rocketHandler.HandleRocket, "rocket"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// allowRead rejects methods other than GET and POST.
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodPost {
		return true
	}
	w.Header().Set("Allow", "GET, POST")
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	return false
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
