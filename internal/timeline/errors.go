package timeline

import "errors"

// Sentinel kinds for timeline errors.
var (
	ErrInvalidRate     = errors.New("invalid rate")
	ErrInvalidTimeline = errors.New("invalid timeline")
)
