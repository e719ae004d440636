package skillset

import "errors"

// Sentinel kinds for skillset errors.
var (
	ErrUnknownSkillset = errors.New("unknown skillset")
)
