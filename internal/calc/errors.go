package calc

import "errors"

var (
	// ErrCompute indicates the analyzers produced an unusable result for a
	// structurally valid timeline. It always wraps the underlying cause.
	ErrCompute = errors.New("difficulty computation failed")

	// ErrUnknownRate indicates a Table lookup for a rate the sweep never ran.
	ErrUnknownRate = errors.New("rate not in table")
)
