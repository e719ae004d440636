// Package analysis implements the seven windowed skillset analyzers.
//
// Every analyzer follows the same shape: extract a pattern-specific
// interval sequence from the timeline, convert intervals to instantaneous
// density, slide fixed-duration time windows over the density samples,
// and reduce the per-window statistics to one scalar through a power
// mean. All functions are pure over immutable inputs.
package analysis

import (
	"fmt"
	"math"

	"github.com/seiru/msdcalc/internal/skillset"
)

// Default analysis constants.
const (
	defaultWindowSeconds        = 2.5
	defaultStrideSeconds        = 0.5
	defaultStaminaWindowSeconds = 20.0
	defaultMinInterval          = 0.001 // one millisecond
	defaultMaxJackInterval      = 0.5
	defaultSmoothExponent       = 4.0
	defaultStaminaExponent      = 2.0
	defaultBaseScale            = 2.0
)

// minStrideSeconds floors the window stride so stride steps stay far
// above float64 rounding out to timeline.MaxSeconds.
const minStrideSeconds = 0.001

// Params fixes the tunable constants shared by the analyzers. Instances
// are treated as immutable; sweep parallelism relies on that.
type Params struct {
	// WindowSeconds is the sliding window length for burst-sensitive
	// skillsets; StrideSeconds is the window step.
	WindowSeconds float64
	StrideSeconds float64

	// StaminaWindowSeconds replaces WindowSeconds for the stamina
	// analyzer, which rewards sustained output over a long span.
	StaminaWindowSeconds float64

	// MinInterval clamps note gaps before inversion so near-zero gaps
	// cannot blow density up.
	MinInterval float64

	// MaxJackInterval bounds how far apart same-column repeats may be
	// and still count as a jack.
	MaxJackInterval float64

	// SmoothExponent is the power-mean exponent reducing window
	// statistics to one scalar; StaminaExponent is the stamina variant.
	SmoothExponent  float64
	StaminaExponent float64

	// BaseScale converts notes-per-second density into rating points.
	BaseScale float64

	// Scales weights each skillset's final value.
	Scales [skillset.Count]float64
}

// DefaultParams returns the calibrated constants.
func DefaultParams() Params {
	return Params{
		WindowSeconds:        defaultWindowSeconds,
		StrideSeconds:        defaultStrideSeconds,
		StaminaWindowSeconds: defaultStaminaWindowSeconds,
		MinInterval:          defaultMinInterval,
		MaxJackInterval:      defaultMaxJackInterval,
		SmoothExponent:       defaultSmoothExponent,
		StaminaExponent:      defaultStaminaExponent,
		BaseScale:            defaultBaseScale,
		Scales: [skillset.Count]float64{
			skillset.Stream:     1.0,
			skillset.Jumpstream: 0.95,
			skillset.Handstream: 0.9,
			skillset.Stamina:    0.85,
			skillset.JackSpeed:  1.0,
			skillset.Chordjack:  0.9,
			skillset.Technical:  0.95,
		},
	}
}

// Validate rejects parameter sets that would break the window machinery.
func (p Params) Validate() error {
	check := func(name string, v float64) error {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidParams, name, v)
		}
		return nil
	}
	if err := check("window_seconds", p.WindowSeconds); err != nil {
		return err
	}
	if err := check("stride_seconds", p.StrideSeconds); err != nil {
		return err
	}
	if p.StrideSeconds < minStrideSeconds {
		return fmt.Errorf("%w: stride_seconds %v is below the %v minimum", ErrInvalidParams, p.StrideSeconds, minStrideSeconds)
	}
	if err := check("stamina_window_seconds", p.StaminaWindowSeconds); err != nil {
		return err
	}
	if err := check("min_interval", p.MinInterval); err != nil {
		return err
	}
	if err := check("max_jack_interval", p.MaxJackInterval); err != nil {
		return err
	}
	if err := check("base_scale", p.BaseScale); err != nil {
		return err
	}
	if p.SmoothExponent <= 1 || math.IsNaN(p.SmoothExponent) || math.IsInf(p.SmoothExponent, 0) {
		return fmt.Errorf("%w: smooth_exponent must exceed 1, got %v", ErrInvalidParams, p.SmoothExponent)
	}
	if p.StaminaExponent <= 1 || math.IsNaN(p.StaminaExponent) || math.IsInf(p.StaminaExponent, 0) {
		return fmt.Errorf("%w: stamina_exponent must exceed 1, got %v", ErrInvalidParams, p.StaminaExponent)
	}
	for k, scale := range p.Scales {
		if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
			return fmt.Errorf("%w: scale for %s = %v", ErrInvalidParams, skillset.Skillset(k), scale)
		}
	}
	return nil
}
