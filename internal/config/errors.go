package config

import "errors"

var (
	// ErrInvalidConfig indicates a loaded config that fails validation,
	// including engine constants rejected by their own packages.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig wraps failures of the file and environment providers.
	ErrLoadConfig = errors.New("load config failed")
)
