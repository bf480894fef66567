package period

import "errors"

// ErrUnknownMode is returned for modes other than Weekly and Monthly.
var ErrUnknownMode = errors.New("unknown period mode")
