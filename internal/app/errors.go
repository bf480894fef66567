package app

import "errors"

// ErrInvalidSettings reports an evaluation configuration that cannot be used.
var ErrInvalidSettings = errors.New("invalid settings")
