// Package metrics provides Prometheus metrics for the IGNITE progress service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the IGNITE service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Pipeline metrics
	evaluations        *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	progressRatio      *prometheus.GaugeVec
	totalPoints        *prometheus.GaugeVec
	scoredEvents       *prometheus.GaugeVec

	// Source metrics
	sourceLoads     *prometheus.CounterVec
	sourceFallbacks prometheus.Counter
	rowsLoaded      prometheus.Counter
	rowsDropped     prometheus.Counter
	inputErrors     *prometheus.CounterVec
	fetchDuration   prometheus.Histogram

	// Render metrics
	renderDuration prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ignite",
		subsystem:        "progress",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(m.counterOpts("evaluations_total",
		"Total number of progress evaluations by period mode and outcome"),
		[]string{"mode", "outcome"})
	m.evaluationDuration = auto.NewHistogram(m.histogramOpts("evaluation_duration_milliseconds",
		"Evaluation latency in milliseconds, load included"))
	m.progressRatio = auto.NewGaugeVec(m.gaugeOpts("progress_ratio",
		"Progress towards the goal in the last evaluation, in [0,1]"),
		[]string{"mode"})
	m.totalPoints = auto.NewGaugeVec(m.gaugeOpts("total_points",
		"Points scored inside the current period in the last evaluation"),
		[]string{"mode"})
	m.scoredEvents = auto.NewGaugeVec(m.gaugeOpts("scored_events",
		"Events inside the current period in the last evaluation"),
		[]string{"mode"})

	m.sourceLoads = auto.NewCounterVec(m.counterOpts("source_loads_total",
		"Event logs loaded by origin (upload, url, sample)"),
		[]string{"origin"})
	m.sourceFallbacks = auto.NewCounter(m.counterOpts("source_fallbacks_total",
		"URL loads that fell back to the bundled sample"))
	m.rowsLoaded = auto.NewCounter(m.counterOpts("rows_loaded_total",
		"Rows kept after timestamp normalization"))
	m.rowsDropped = auto.NewCounter(m.counterOpts("rows_dropped_total",
		"Rows dropped because of an unparseable timestamp"))
	m.inputErrors = auto.NewCounterVec(m.counterOpts("input_errors_total",
		"Fatal input errors by kind"),
		[]string{"kind"})
	m.fetchDuration = auto.NewHistogram(m.histogramOpts("fetch_duration_milliseconds",
		"Remote CSV fetch latency in milliseconds"))

	m.renderDuration = auto.NewHistogram(m.histogramOpts("render_duration_milliseconds",
		"Rocket image render latency in milliseconds"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"HTTP errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Errors by type and severity"),
		[]string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes",
		"Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds",
		"Average GC pause in milliseconds"))
}

// RecordEvaluation records one evaluation with its outcome ("ok" or "error").
func (m *Manager) RecordEvaluation(mode, outcome string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.evaluations.WithLabelValues(mode, outcome).Inc()
	m.evaluationDuration.Observe(durationMs)
}

// UpdateProgress sets the progress gauges for mode.
func (m *Manager) UpdateProgress(mode string, progress float64, totalPoints, events int) {
	if !m.enabled {
		return
	}
	m.progressRatio.WithLabelValues(mode).Set(progress)
	m.totalPoints.WithLabelValues(mode).Set(float64(totalPoints))
	m.scoredEvents.WithLabelValues(mode).Set(float64(events))
}

// RecordSourceLoad records a successful load from origin.
func (m *Manager) RecordSourceLoad(origin string, kept, dropped int) {
	if !m.enabled {
		return
	}
	m.sourceLoads.WithLabelValues(origin).Inc()
	m.rowsLoaded.Add(float64(kept))
	m.rowsDropped.Add(float64(dropped))
}

// RecordSourceFallback increments the fallback counter.
func (m *Manager) RecordSourceFallback() {
	if !m.enabled {
		return
	}
	m.sourceFallbacks.Inc()
}

// RecordInputError increments the input error counter for kind.
func (m *Manager) RecordInputError(kind string) {
	if !m.enabled {
		return
	}
	m.inputErrors.WithLabelValues(kind).Inc()
}

// RecordFetchDuration records a remote fetch latency.
func (m *Manager) RecordFetchDuration(durationMs float64) {
	if !m.enabled {
		return
	}
	m.fetchDuration.Observe(durationMs)
}

// RecordRenderDuration records an image render latency.
func (m *Manager) RecordRenderDuration(durationMs float64) {
	if !m.enabled {
		return
	}
	m.renderDuration.Observe(durationMs)
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an HTTP error by endpoint and by type.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// UpdateSystem sets the system gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int, avgGCPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if avgGCPauseMs > 0 {
		m.systemGCPauseTime.Observe(avgGCPauseMs)
	}
}

// Package-level recorders operating on the global manager.

// RecordEvaluation records one evaluation on the global manager.
func RecordEvaluation(mode, outcome string, durationMs float64) {
	globalManager.RecordEvaluation(mode, outcome, durationMs)
}

// UpdateProgress sets the progress gauges on the global manager.
func UpdateProgress(mode string, progress float64, totalPoints, events int) {
	globalManager.UpdateProgress(mode, progress, totalPoints, events)
}

// RecordSourceLoad records a successful load on the global manager.
func RecordSourceLoad(origin string, kept, dropped int) {
	globalManager.RecordSourceLoad(origin, kept, dropped)
}

// RecordSourceFallback increments the global fallback counter.
func RecordSourceFallback() { globalManager.RecordSourceFallback() }

// RecordInputError increments the global input error counter.
func RecordInputError(kind string) { globalManager.RecordInputError(kind) }

// RecordFetchDuration records a remote fetch latency on the global manager.
func RecordFetchDuration(durationMs float64) { globalManager.RecordFetchDuration(durationMs) }

// RecordRenderDuration records a render latency on the global manager.
func RecordRenderDuration(durationMs float64) { globalManager.RecordRenderDuration(durationMs) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records an HTTP error on the global manager.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity)
}

// UpdateSystem sets the system gauges on the global manager.
func UpdateSystem(memoryBytes uint64, goroutines int, avgGCPauseMs float64) {
	globalManager.UpdateSystem(memoryBytes, goroutines, avgGCPauseMs)
}

// Configure rebuilds the global manager with opts on a fresh registry.
// Call it once at startup, before handlers read GetRegistry.
func Configure(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append([]Option{WithPrometheusRegistry(customRegistry)}, opts...)...)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns how often periodic gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
