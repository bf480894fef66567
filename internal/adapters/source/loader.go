// Package source loads the activity log from an upload, a remote CSV URL or
// the bundled sample, and normalizes it into model events.
package source

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/okian/ignite/internal/domain/model"
	"github.com/okian/ignite/internal/domain/period"
	"github.com/okian/ignite/pkg/logger"
	"github.com/okian/ignite/pkg/metrics"
)

//go:embed sample_data.csv
var bundledSample []byte

// Origin names where the loaded events came from.
type Origin string

// Origins.
const (
	OriginUpload Origin = "upload"
	OriginURL    Origin = "url"
	OriginSample Origin = "sample"
)

// Defaults.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxBytes     = 10 << 20
)

// Input selects the source. Upload wins over URL; with neither the sample
// is used.
type Input struct {
	Upload io.Reader
	URL    string

	// Now is the evaluation instant. A rebasing loader moves the sample
	// into the week containing it; zero leaves the sample as written.
	Now time.Time
}

// Table is a normalized event table.
type Table struct {
	Events   []model.Event
	Origin   Origin
	Dropped  int
	Warnings []string
}

// Loader reads activity logs.
type Loader struct {
	client       *http.Client
	log          logger.Logger
	location     *time.Location
	sample       []byte
	samplePath   string
	fetchTimeout time.Duration
	maxBytes     int64
	rebase       bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.log = lg
		}
	}
}

// WithSample replaces the embedded sample with the given CSV bytes.
func WithSample(csv []byte) Option {
	return func(l *Loader) { l.sample = csv }
}

// WithSamplePath reads the sample from a file on every fallback.
func WithSamplePath(path string) Option {
	return func(l *Loader) { l.samplePath = strings.TrimSpace(path) }
}

// WithFetchTimeout bounds a single URL fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.fetchTimeout = d
		}
	}
}

// WithMaxBytes caps how much of an upload or URL body is read.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// WithSampleRebase shifts sample rows by whole weeks so the latest one lands
// in the week of Input.Now.
func WithSampleRebase(on bool) Option {
	return func(l *Loader) { l.rebase = on }
}

// NewLoader creates a Loader with the embedded sample.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:       http.DefaultClient,
		log:          logger.Nop(),
		location:     period.Location(),
		sample:       bundledSample,
		fetchTimeout: DefaultFetchTimeout,
		maxBytes:     DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load picks the source and parses it. A failing URL falls back to the
// sample with a warning. Missing required columns are always an error.
func (l *Loader) Load(ctx context.Context, in Input) (Table, error) {
	const op = "source.Load"

	switch {
	case in.Upload != nil:
		data, err := l.readLimited(in.Upload)
		if err != nil {
			return Table{}, fmt.Errorf("%s: upload: %w", op, err)
		}
		return l.parse(ctx, data, OriginUpload)

	case strings.TrimSpace(in.URL) != "":
		raw := strings.TrimSpace(in.URL)
		data, err := l.fetch(ctx, raw)
		if err == nil {
			t, perr := l.parse(ctx, data, OriginURL)
			if perr == nil || errors.Is(perr, ErrMissingColumn) {
				return t, perr
			}
			err = perr
		}
		l.log.Warn(ctx, "csv url failed, using sample data",
			logger.String("url", raw),
			logger.Error(err))
		metrics.RecordSourceFallback()

		t, serr := l.loadSample(ctx, in.Now)
		if serr != nil {
			return Table{}, fmt.Errorf("%s: %w", op, serr)
		}
		t.Warnings = append(t.Warnings, fmt.Sprintf("Could not load CSV URL (%v). Using sample data.", err))
		return t, nil

	default:
		t, err := l.loadSample(ctx, in.Now)
		if err != nil {
			return Table{}, fmt.Errorf("%s: %w", op, err)
		}
		return t, nil
	}
}

func (l *Loader) loadSample(ctx context.Context, now time.Time) (Table, error) {
	data := l.sample
	if l.samplePath != "" {
		b, err := os.ReadFile(l.samplePath)
		if err != nil {
			return Table{}, fmt.Errorf("%w: %v", ErrSample, err)
		}
		data = b
	}
	t, err := l.parse(ctx, data, OriginSample)
	if err != nil && !errors.Is(err, ErrMissingColumn) {
		return Table{}, fmt.Errorf("%w: %v", ErrSample, err)
	}
	if err == nil && l.rebase && !now.IsZero() {
		t.Events = Rebase(t.Events, now)
	}
	return t, err
}

func (l *Loader) parse(ctx context.Context, data []byte, origin Origin) (Table, error) {
	events, dropped, err := Parse(bytes.NewReader(data), l.location)
	if err != nil {
		return Table{}, err
	}
	metrics.RecordSourceLoad(string(origin), len(events), dropped)
	l.log.Debug(ctx, "activity log loaded",
		logger.String("origin", string(origin)),
		logger.Int("events", len(events)),
		logger.Int("dropped", dropped))
	return Table{Events: events, Origin: origin, Dropped: dropped}, nil
}

func (l *Loader) fetch(ctx context.Context, raw string) ([]byte, error) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: unsupported url %q", ErrFetch, raw)
	}

	ctx, cancel := context.WithTimeout(ctx, l.fetchTimeout)
	defer cancel()

	start := time.Now()
	defer func() { metrics.RecordFetchDuration(float64(time.Since(start).Milliseconds())) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}
	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return data, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, l.maxBytes)
	}
	return data, nil
}
