package ranking

import "errors"

// Sentinel kinds for leaderboard errors.
var (
	ErrNotFound     = errors.New("chart not ranked")
	ErrInvalidLimit = errors.New("invalid ranking limit")
)
