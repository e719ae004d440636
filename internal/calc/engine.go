// Package calc is the difficulty engine: it drives the analysis and rating
// stages over one or many playback rates.
//
// An Engine holds only immutable configuration, so a single instance is safe
// for concurrent use. All methods are pure with respect to their timeline
// argument.
package calc

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/seiru/msdcalc/internal/analysis"
	"github.com/seiru/msdcalc/internal/rating"
	"github.com/seiru/msdcalc/internal/skillset"
	"github.com/seiru/msdcalc/internal/timeline"
)

// Engine computes skillset ratings for note timelines.
type Engine struct {
	analysis analysis.Params
	rating   rating.Params
	rates    []float64
	workers  int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAnalysisParams overrides the analyzer tuning constants.
func WithAnalysisParams(p analysis.Params) Option {
	return func(e *Engine) {
		e.analysis = p
	}
}

// WithRatingParams overrides the aggregation constants.
func WithRatingParams(p rating.Params) Option {
	return func(e *Engine) {
		e.rating = p
	}
}

// WithRates replaces the canonical sweep grid.
func WithRates(rates []float64) Option {
	return func(e *Engine) {
		if len(rates) > 0 {
			e.rates = append([]float64(nil), rates...)
		}
	}
}

// WithWorkers caps the number of goroutines a sweep uses.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// New builds an Engine with defaults overridden by opts. Params and rates
// are validated once here so compute paths never re-check them.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		analysis: analysis.DefaultParams(),
		rating:   rating.DefaultParams(),
		rates:    DefaultRates(),
		workers:  runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.analysis.Validate(); err != nil {
		return nil, err
	}
	if err := e.rating.Validate(); err != nil {
		return nil, err
	}
	for _, r := range e.rates {
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, fmt.Errorf("%w: %v", timeline.ErrInvalidRate, r)
		}
	}
	return e, nil
}

// SSRResult is a score-specific rating: the scores a player earns by hitting
// one chart at one rate with one accuracy goal.
type SSRResult struct {
	Rate   float64           `json:"rate"`
	Goal   float64           `json:"goal"`
	Scores skillset.ScoreSet `json:"scores"`
}

// SSR rates a single play: scale the chart to rate, run the analyzers,
// aggregate, then bend the result toward the accuracy goal. Goal 100 returns
// the base rating unchanged.
func (e *Engine) SSR(tl timeline.Timeline, rate, goal float64) (SSRResult, error) {
	base, err := e.MSDAt(tl, rate)
	if err != nil {
		return SSRResult{}, err
	}
	scores, err := rating.ApplyGoal(base, goal, e.rating)
	if err != nil {
		return SSRResult{}, err
	}
	return SSRResult{Rate: rate, Goal: goal, Scores: scores}, nil
}

// MSDAt computes the uncapped full-accuracy scores at a single rate.
func (e *Engine) MSDAt(tl timeline.Timeline, rate float64) (skillset.ScoreSet, error) {
	scaled, err := tl.Scale(rate)
	if err != nil {
		return skillset.ScoreSet{}, err
	}
	values, err := analysis.Analyze(scaled, e.analysis)
	if err != nil {
		return skillset.ScoreSet{}, fmt.Errorf("%w at rate %v: %w", ErrCompute, rate, err)
	}
	return rating.Combine(values, e.rating), nil
}

// MSD sweeps the configured rate grid and returns one entry per rate.
// Rates are computed concurrently by a bounded worker pool; each worker
// writes only its own result slots, so no locking is needed.
func (e *Engine) MSD(tl timeline.Timeline) (Table, error) {
	scores := make([]skillset.ScoreSet, len(e.rates))
	errs := make([]error, len(e.rates))

	workers := e.workers
	if workers > len(e.rates) {
		workers = len(e.rates)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				scores[i], errs[i] = e.MSDAt(tl, e.rates[i])
			}
		}()
	}
	for i := range e.rates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return Table{}, fmt.Errorf("rate %.2f: %w", e.rates[i], err)
		}
	}

	entries := make([]Entry, len(e.rates))
	for i := range e.rates {
		entries[i] = Entry{Rate: e.rates[i], Scores: scores[i]}
	}
	return Table{Entries: entries}, nil
}

// Rates returns a copy of the sweep grid the engine is configured with.
func (e *Engine) Rates() []float64 {
	return append([]float64(nil), e.rates...)
}

// Fingerprint returns a short stable digest of every tuning constant that
// influences scores. Caches key on it so stale rows die when params change.
func (e *Engine) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "analysis:%+v;rating:%+v;rates:%v", e.analysis, e.rating, e.rates)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
