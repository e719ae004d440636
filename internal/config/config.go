// Package config defines process configuration and loading hooks.
//
// Conventions:
// - New() builds a Config carrying the engine defaults.
// - Load(ctx) layers defaults, an optional YAML file, and environment
//   variables, then validates the result.
// - External errors are wrapped via this package's sentinels.
package config

import (
	"fmt"
	"runtime"

	"github.com/seiru/msdcalc/internal/analysis"
	"github.com/seiru/msdcalc/internal/calc"
	"github.com/seiru/msdcalc/internal/rating"
	"github.com/seiru/msdcalc/internal/skillset"
)

// Config contains process configuration. Engine tuning constants are
// exposed here so deployments can adjust them without a rebuild.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Workers sets the goroutine count for rate sweeps and pack scans.
	Workers int `koanf:"workers"`

	// CachePath points at the SQLite rating cache. Empty disables caching.
	CachePath string `koanf:"cache_path"`

	// MetricsAddr exposes /metrics during scans when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// TopN caps the ranking report of a pack scan.
	TopN int `koanf:"top_n"`

	// WindowSeconds and StrideSeconds shape the sliding difficulty windows.
	WindowSeconds float64 `koanf:"window_seconds"`
	StrideSeconds float64 `koanf:"stride_seconds"`

	// StaminaWindowSeconds is the long window of the stamina analyzer.
	StaminaWindowSeconds float64 `koanf:"stamina_window_seconds"`

	// MinInterval clamps note gaps when converting them to density.
	MinInterval float64 `koanf:"min_interval"`

	// MaxJackInterval bounds same-column repeats counted as jacks.
	MaxJackInterval float64 `koanf:"max_jack_interval"`

	// SmoothExponent and StaminaExponent tune the power-mean reductions.
	SmoothExponent  float64 `koanf:"smooth_exponent"`
	StaminaExponent float64 `koanf:"stamina_exponent"`

	// BaseScale converts window density into displayed rating points.
	BaseScale float64 `koanf:"base_scale"`

	// SkillScales maps skillset names to their output weights.
	SkillScales map[string]float64 `koanf:"skill_scales"`

	// SecondaryWeight blends non-dominant skillsets into the overall score.
	SecondaryWeight float64 `koanf:"secondary_weight"`

	// GoalExponent bends ratings toward the accuracy goal.
	GoalExponent float64 `koanf:"goal_exponent"`
}

// New creates a Config populated with the engine defaults.
func New() *Config {
	ap := analysis.DefaultParams()
	rp := rating.DefaultParams()

	scales := make(map[string]float64, skillset.Count)
	for _, k := range skillset.All() {
		scales[k.String()] = ap.Scales[k]
	}

	return &Config{
		LogLevel:             "info",
		Workers:              runtime.NumCPU(),
		CachePath:            "msdcalc-cache.db",
		TopN:                 20,
		WindowSeconds:        ap.WindowSeconds,
		StrideSeconds:        ap.StrideSeconds,
		StaminaWindowSeconds: ap.StaminaWindowSeconds,
		MinInterval:          ap.MinInterval,
		MaxJackInterval:      ap.MaxJackInterval,
		SmoothExponent:       ap.SmoothExponent,
		StaminaExponent:      ap.StaminaExponent,
		BaseScale:            ap.BaseScale,
		SkillScales:          scales,
		SecondaryWeight:      rp.SecondaryWeight,
		GoalExponent:         rp.GoalExponent,
	}
}

// AnalysisParams converts the configured tuning constants into analyzer
// params, resolving skill scale names against the skillset enum.
func (c *Config) AnalysisParams() (analysis.Params, error) {
	p := analysis.DefaultParams()
	p.WindowSeconds = c.WindowSeconds
	p.StrideSeconds = c.StrideSeconds
	p.StaminaWindowSeconds = c.StaminaWindowSeconds
	p.MinInterval = c.MinInterval
	p.MaxJackInterval = c.MaxJackInterval
	p.SmoothExponent = c.SmoothExponent
	p.StaminaExponent = c.StaminaExponent
	p.BaseScale = c.BaseScale

	for name, scale := range c.SkillScales {
		k, err := skillset.Parse(name)
		if err != nil {
			return analysis.Params{}, fmt.Errorf("%w: skill scale %q", ErrInvalidConfig, name)
		}
		p.Scales[k] = scale
	}

	if err := p.Validate(); err != nil {
		return analysis.Params{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return p, nil
}

// RatingParams converts the configured aggregation constants.
func (c *Config) RatingParams() (rating.Params, error) {
	p := rating.Params{
		SecondaryWeight: c.SecondaryWeight,
		GoalExponent:    c.GoalExponent,
	}
	if err := p.Validate(); err != nil {
		return rating.Params{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return p, nil
}

// EngineOptions assembles the calc.Engine options this config describes.
func (c *Config) EngineOptions() ([]calc.Option, error) {
	ap, err := c.AnalysisParams()
	if err != nil {
		return nil, err
	}
	rp, err := c.RatingParams()
	if err != nil {
		return nil, err
	}
	return []calc.Option{
		calc.WithAnalysisParams(ap),
		calc.WithRatingParams(rp),
		calc.WithWorkers(c.Workers),
	}, nil
}

// validate checks the non-engine fields. Engine constants validate through
// their own packages in AnalysisParams and RatingParams.
func (c *Config) validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	}
	if _, err := c.AnalysisParams(); err != nil {
		return err
	}
	if _, err := c.RatingParams(); err != nil {
		return err
	}
	return nil
}
