package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/ignite/internal/adapters/source"
	"github.com/okian/ignite/internal/app"
	"github.com/okian/ignite/internal/domain/period"
)

// Request parameters.
const (
	paramMode    = "mode"
	paramGoal    = "goal"
	paramURL     = "url"
	paramWeight  = "weight_"
	formFileName = "file"
)

// requestReader turns a request into evaluation settings and a source.
type requestReader struct {
	defaults   func() app.Settings
	defaultURL string
	maxUpload  int64
}

// read parses query and form parameters. POST bodies may be multipart with
// the log in field "file", or a raw text/csv body. The returned func
// releases the upload and must be called.
func (rr requestReader) read(w http.ResponseWriter, r *http.Request) (app.Settings, source.Input, func(), error) {
	var in source.Input
	release := func() {}

	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, rr.maxUpload)

		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch mediaType {
		case "multipart/form-data":
			if err := r.ParseMultipartForm(multipartMemory); err != nil {
				return app.Settings{}, in, release, bodyError(err)
			}
			release = func() { _ = r.MultipartForm.RemoveAll() }
			file, _, err := r.FormFile(formFileName)
			switch {
			case errors.Is(err, http.ErrMissingFile):
			case err != nil:
				return app.Settings{}, in, release, fmt.Errorf("%w: %w", ErrBadRequest, err)
			default:
				in.Upload = file
				release = func() {
					_ = file.Close()
					_ = r.MultipartForm.RemoveAll()
				}
			}
		case "text/csv", "text/plain", "application/csv":
			in.Upload = r.Body
		}
	}

	if err := r.ParseForm(); err != nil {
		return app.Settings{}, in, release, bodyError(err)
	}

	settings, err := settingsFrom(r.Form, rr.defaults())
	if err != nil {
		return app.Settings{}, in, release, err
	}

	in.URL = strings.TrimSpace(r.Form.Get(paramURL))
	if in.URL == "" {
		in.URL = rr.defaultURL
	}
	return settings, in, release, nil
}

func settingsFrom(values url.Values, s app.Settings) (app.Settings, error) {
	if raw := strings.TrimSpace(values.Get(paramMode)); raw != "" {
		mode, err := period.ParseMode(raw)
		if err != nil {
			return app.Settings{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		s.Mode = mode
	}

	if raw := strings.TrimSpace(values.Get(paramGoal)); raw != "" {
		goal, err := strconv.Atoi(raw)
		if err != nil {
			return app.Settings{}, fmt.Errorf("%w: goal %q is not a whole number", ErrBadRequest, raw)
		}
		s.GoalPoints = goal
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.HasPrefix(strings.ToLower(k), paramWeight) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		action := k[len(paramWeight):]
		raw := strings.TrimSpace(values.Get(k))
		points, err := strconv.Atoi(raw)
		if err != nil {
			return app.Settings{}, fmt.Errorf("%w: %s %q is not a whole number", ErrBadRequest, k, raw)
		}
		if s.Weights, err = s.Weights.With(action, points); err != nil {
			return app.Settings{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
	}

	if err := s.Validate(); err != nil {
		return app.Settings{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return s, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit)
	}
	// multipart parsing may flatten the cause into its message.
	if strings.Contains(err.Error(), "request body too large") {
		return fmt.Errorf("%w: %w", ErrTooLarge, err)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated body", ErrBadRequest)
	}
	return fmt.Errorf("%w: %w", ErrBadRequest, err)
}

// status maps an evaluation error to an HTTP status and error code.
func status(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, ErrTooLarge), errors.Is(err, source.ErrTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, ErrBadRequest), errors.Is(err, app.ErrInvalidSettings):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, source.ErrMissingColumn), errors.Is(err, source.ErrMalformed):
		return http.StatusUnprocessableEntity, "invalid_input"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
