package chartgen

import "errors"

// ErrUnknownPattern reports a pattern name outside the generator's set.
var ErrUnknownPattern = errors.New("unknown pattern")
