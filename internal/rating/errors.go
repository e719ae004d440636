package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	ErrInvalidGoal   = errors.New("invalid accuracy goal")
	ErrInvalidParams = errors.New("invalid rating params")
)
