package analysis

import "errors"

// Sentinel kinds for analysis errors.
var (
	ErrInvalidParams = errors.New("invalid analysis params")
	ErrNotFinite     = errors.New("non-finite analysis output")
)
