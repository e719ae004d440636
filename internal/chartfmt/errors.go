package chartfmt

import "errors"

var (
	// ErrUnsupportedFormat indicates input that matches no known chart format,
	// or a chart variant (mode, key count) the engine cannot analyze.
	ErrUnsupportedFormat = errors.New("unsupported chart format")

	// ErrMalformedHeader indicates a recognized format whose header or
	// metadata section cannot be parsed.
	ErrMalformedHeader = errors.New("malformed chart header")

	// ErrMalformedEvent indicates a note event line that violates the format:
	// wrong field count, non-numeric values, or out-of-range columns.
	ErrMalformedEvent = errors.New("malformed note event")

	// ErrEmptyChart indicates a structurally valid chart that contains no
	// analyzable note events.
	ErrEmptyChart = errors.New("chart has no notes")
)
