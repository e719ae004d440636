package calc

import (
	"fmt"
	"math"

	"github.com/seiru/msdcalc/internal/skillset"
)

// Canonical rate sweep bounds. The sweep runs from MinRate to MaxRate
// inclusive in RateStep increments.
const (
	MinRate  = 0.5
	MaxRate  = 2.0
	RateStep = 0.05
)

// rateTolerance absorbs float drift when matching rates in a table.
const rateTolerance = 1e-9

// DefaultRates returns the canonical rate grid: [0.5, 2.0] in 0.05 steps,
// 31 entries. Values are rounded to two decimals so they print and compare
// cleanly.
func DefaultRates() []float64 {
	n := int(math.Round((MaxRate-MinRate)/RateStep)) + 1
	rates := make([]float64, n)
	for i := range rates {
		rates[i] = math.Round((MinRate+float64(i)*RateStep)*100) / 100
	}
	return rates
}

// Entry is one row of a difficulty table: the scores at a single rate.
type Entry struct {
	Rate   float64           `json:"rate"`
	Scores skillset.ScoreSet `json:"scores"`
}

// Table holds the full rate sweep for one chart, one entry per rate in
// ascending rate order.
type Table struct {
	Entries []Entry `json:"entries"`
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.Entries)
}

// Rates returns the rates of the sweep in table order.
func (t Table) Rates() []float64 {
	rates := make([]float64, len(t.Entries))
	for i, e := range t.Entries {
		rates[i] = e.Rate
	}
	return rates
}

// ByRate returns the sweep as a rate-keyed map for consumers that index
// scores by rate instead of walking the entries.
func (t Table) ByRate() map[float64]skillset.ScoreSet {
	out := make(map[float64]skillset.ScoreSet, len(t.Entries))
	for _, e := range t.Entries {
		out[e.Rate] = e.Scores
	}
	return out
}

// At returns the scores for the given rate. Rates are matched with a small
// tolerance; asking for a rate the sweep never ran is an error.
func (t Table) At(rate float64) (skillset.ScoreSet, error) {
	for _, e := range t.Entries {
		if math.Abs(e.Rate-rate) < rateTolerance {
			return e.Scores, nil
		}
	}
	return skillset.ScoreSet{}, fmt.Errorf("%w: %v", ErrUnknownRate, rate)
}
