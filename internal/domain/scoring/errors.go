package scoring

import "errors"

// ErrNegativeWeight is returned when a weight below zero is configured.
var ErrNegativeWeight = errors.New("weight must not be negative")
