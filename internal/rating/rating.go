// Package rating combines skillset values into an overall score and
// adjusts score sets toward a target accuracy goal.
package rating

import (
	"fmt"
	"math"

	"github.com/seiru/msdcalc/internal/skillset"
)

// Default aggregation constants.
const (
	defaultSecondaryWeight = 0.15
	defaultGoalExponent    = 1.9
	goalFull               = 100.0
)

// Params fixes the aggregation constants. Immutable once built.
type Params struct {
	// SecondaryWeight scales how much the six non-dominant skillsets
	// lift the overall above the maximum.
	SecondaryWeight float64

	// GoalExponent shapes the accuracy-goal curve: scores scale by
	// (goal/100)^GoalExponent, so goal 100 is a fixed point.
	GoalExponent float64
}

// DefaultParams returns the calibrated aggregation constants.
func DefaultParams() Params {
	return Params{
		SecondaryWeight: defaultSecondaryWeight,
		GoalExponent:    defaultGoalExponent,
	}
}

// Validate rejects constants that would break the overall invariants.
func (p Params) Validate() error {
	if p.SecondaryWeight < 0 || math.IsNaN(p.SecondaryWeight) || math.IsInf(p.SecondaryWeight, 0) {
		return fmt.Errorf("%w: secondary_weight = %v", ErrInvalidParams, p.SecondaryWeight)
	}
	if p.GoalExponent <= 0 || math.IsNaN(p.GoalExponent) || math.IsInf(p.GoalExponent, 0) {
		return fmt.Errorf("%w: goal_exponent = %v", ErrInvalidParams, p.GoalExponent)
	}
	return nil
}

// Overall combines the seven skillset values into one score that tracks
// the hardest skillset but is still lifted by the remaining six:
// max + weight * mean(others). The result is always >= the maximum.
func Overall(values [skillset.Count]float64, p Params) float64 {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	var rest float64
	for _, v := range values {
		rest += v
	}
	rest -= max
	return max + p.SecondaryWeight*rest/float64(skillset.Count-1)
}

// Combine builds a full ScoreSet, overall included, from raw analyzer
// values.
func Combine(values [skillset.Count]float64, p Params) skillset.ScoreSet {
	return skillset.FromValues(values, Overall(values, p))
}

// ApplyGoal scales a full-accuracy score set toward a target accuracy
// goal in percent. The curve is strictly monotone in goal and leaves the
// base set untouched at goal 100. Goals outside (0, 100] are rejected.
func ApplyGoal(base skillset.ScoreSet, goal float64, p Params) (skillset.ScoreSet, error) {
	if goal <= 0 || goal > goalFull || math.IsNaN(goal) {
		return skillset.ScoreSet{}, fmt.Errorf("%w: %v", ErrInvalidGoal, goal)
	}

	factor := math.Pow(goal/goalFull, p.GoalExponent)
	values := base.Values()
	for i := range values {
		values[i] *= factor
	}
	return Combine(values, p), nil
}
