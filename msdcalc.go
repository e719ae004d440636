package msdcalc

import (
	"github.com/seiru/msdcalc/internal/analysis"
	"github.com/seiru/msdcalc/internal/calc"
	"github.com/seiru/msdcalc/internal/chartfmt"
	"github.com/seiru/msdcalc/internal/rating"
	"github.com/seiru/msdcalc/internal/skillset"
	"github.com/seiru/msdcalc/internal/timeline"
)

// Core types, re-exported so callers never import internal packages.
type (
	// NoteEvent is one timed hit in a chart.
	NoteEvent = timeline.NoteEvent

	// NoteKind classifies a note event: tap, hold boundary, or mine.
	NoteKind = timeline.NoteKind

	// Timeline is the canonical ordered note sequence of one chart.
	Timeline = timeline.Timeline

	// Skillset tags one of the seven difficulty dimensions.
	Skillset = skillset.Skillset

	// ScoreSet holds the seven skillset scores plus the derived overall.
	ScoreSet = skillset.ScoreSet

	// Engine computes ratings; immutable and safe for concurrent use.
	Engine = calc.Engine

	// Option configures an Engine built by NewEngine.
	Option = calc.Option

	// SSRResult is the rating of one play: chart, rate, accuracy goal.
	SSRResult = calc.SSRResult

	// Table is a full rate sweep, one ScoreSet per canonical rate.
	Table = calc.Table

	// Entry is one row of a Table.
	Entry = calc.Entry

	// Format identifies a supported chart file format.
	Format = chartfmt.Format

	// AnalysisParams carries the analyzer tuning constants.
	AnalysisParams = analysis.Params

	// RatingParams carries the aggregation tuning constants.
	RatingParams = rating.Params
)

// Note kinds.
const (
	Tap       = timeline.Tap
	HoldStart = timeline.HoldStart
	HoldEnd   = timeline.HoldEnd
	Mine      = timeline.Mine
)

// The seven skillsets, in canonical order.
const (
	Stream     = skillset.Stream
	Jumpstream = skillset.Jumpstream
	Handstream = skillset.Handstream
	Stamina    = skillset.Stamina
	JackSpeed  = skillset.JackSpeed
	Chordjack  = skillset.Chordjack
	Technical  = skillset.Technical
)

// Chart formats. FormatUnknown doubles as "detect for me" in the
// FromString helpers.
const (
	FormatUnknown  = chartfmt.FormatUnknown
	FormatOsu      = chartfmt.FormatOsu
	FormatSM       = chartfmt.FormatSM
	FormatNoteRows = chartfmt.FormatNoteRows
)

// Sentinel errors, re-exported for errors.Is at the call site.
var (
	ErrUnsupportedFormat = chartfmt.ErrUnsupportedFormat
	ErrMalformedHeader   = chartfmt.ErrMalformedHeader
	ErrMalformedEvent    = chartfmt.ErrMalformedEvent
	ErrEmptyChart        = chartfmt.ErrEmptyChart
	ErrInvalidRate       = timeline.ErrInvalidRate
	ErrInvalidGoal       = rating.ErrInvalidGoal
	ErrCompute           = calc.ErrCompute
)

// Engine options.
var (
	WithAnalysisParams = calc.WithAnalysisParams
	WithRatingParams   = calc.WithRatingParams
	WithRates          = calc.WithRates
	WithWorkers        = calc.WithWorkers
)

// NewEngine builds a rating engine. Without options it carries the
// calibrated defaults and the canonical 0.5x-2.0x rate grid.
func NewEngine(opts ...Option) (*Engine, error) {
	return calc.New(opts...)
}

// DefaultAnalysisParams returns the calibrated analyzer constants.
func DefaultAnalysisParams() AnalysisParams {
	return analysis.DefaultParams()
}

// DefaultRatingParams returns the calibrated aggregation constants.
func DefaultRatingParams() RatingParams {
	return rating.DefaultParams()
}

// DefaultRates returns the canonical sweep grid: 0.5 through 2.0 in
// 0.05 steps.
func DefaultRates() []float64 {
	return calc.DefaultRates()
}

// Skillsets returns the seven skillsets in canonical order.
func Skillsets() [skillset.Count]Skillset {
	return skillset.All()
}

// Detect reports the chart format of raw bytes, or FormatUnknown.
func Detect(data []byte) Format {
	return chartfmt.Detect(data)
}

// Parse converts raw chart bytes into a Timeline, detecting the format.
func Parse(data []byte) (Timeline, error) {
	return chartfmt.Parse(data)
}

// ParseFormat parses raw chart bytes as a known format, skipping
// detection. FormatUnknown falls back to detection.
func ParseFormat(data []byte, hint Format) (Timeline, error) {
	if hint == FormatUnknown {
		return chartfmt.Parse(data)
	}
	return chartfmt.ParseFormat(data, hint)
}

// ParseFile reads and parses the chart at path.
func ParseFile(path string) (Timeline, error) {
	return chartfmt.ParseFile(path)
}

// SSR rates a timeline at one rate and accuracy goal with the default
// engine.
func SSR(tl Timeline, rate, goal float64) (SSRResult, error) {
	engine, err := calc.New()
	if err != nil {
		return SSRResult{}, err
	}
	return engine.SSR(tl, rate, goal)
}

// MSD sweeps a timeline across the canonical rate grid with the default
// engine.
func MSD(tl Timeline) (Table, error) {
	engine, err := calc.New()
	if err != nil {
		return Table{}, err
	}
	return engine.MSD(tl)
}

// MSDAt computes the uncapped full-accuracy scores at a single rate with
// the default engine.
func MSDAt(tl Timeline, rate float64) (ScoreSet, error) {
	engine, err := calc.New()
	if err != nil {
		return ScoreSet{}, err
	}
	return engine.MSDAt(tl, rate)
}

// SSRFromFile reads, parses, and rates the chart at path. File access
// lives here; the engine itself never touches the filesystem.
func SSRFromFile(path string, rate, goal float64) (SSRResult, error) {
	tl, err := chartfmt.ParseFile(path)
	if err != nil {
		return SSRResult{}, err
	}
	return SSR(tl, rate, goal)
}

// SSRFromString parses raw chart text and rates it. A FormatUnknown hint
// triggers detection.
func SSRFromString(raw string, hint Format, rate, goal float64) (SSRResult, error) {
	tl, err := ParseFormat([]byte(raw), hint)
	if err != nil {
		return SSRResult{}, err
	}
	return SSR(tl, rate, goal)
}

// MSDFromFile reads, parses, and sweeps the chart at path.
func MSDFromFile(path string) (Table, error) {
	tl, err := chartfmt.ParseFile(path)
	if err != nil {
		return Table{}, err
	}
	return MSD(tl)
}

// MSDFromString parses raw chart text and sweeps it. A FormatUnknown
// hint triggers detection.
func MSDFromString(raw string, hint Format) (Table, error) {
	tl, err := ParseFormat([]byte(raw), hint)
	if err != nil {
		return Table{}, err
	}
	return MSD(tl)
}
