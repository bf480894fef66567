package source

import "errors"

// Sentinel kinds for source errors.
var (
	// ErrMissingColumn is fatal: the log lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrMalformed reports CSV that cannot be read at all.
	ErrMalformed = errors.New("malformed csv")
	// ErrTooLarge reports input above the configured byte limit.
	ErrTooLarge = errors.New("input too large")
	// ErrFetch reports a failed remote fetch. The loader recovers from it.
	ErrFetch = errors.New("fetch failed")
	// ErrSample reports that the fallback sample could not be read.
	ErrSample = errors.New("sample data unavailable")
)
