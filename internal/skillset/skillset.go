// Package skillset enumerates the seven difficulty dimensions and the
// score container shared across the engine.
package skillset

import (
	"fmt"
	"math"
	"strings"
)

// Skillset tags one of the seven difficulty dimensions. The set is closed;
// no dynamic extension.
type Skillset uint8

const (
	Stream Skillset = iota
	Jumpstream
	Handstream
	Stamina
	JackSpeed
	Chordjack
	Technical
)

// Count is the number of skillsets.
const Count = 7

// All returns the skillsets in canonical order.
func All() [Count]Skillset {
	return [Count]Skillset{Stream, Jumpstream, Handstream, Stamina, JackSpeed, Chordjack, Technical}
}

// String returns the lowercase name of the skillset.
func (s Skillset) String() string {
	switch s {
	case Stream:
		return "stream"
	case Jumpstream:
		return "jumpstream"
	case Handstream:
		return "handstream"
	case Stamina:
		return "stamina"
	case JackSpeed:
		return "jackspeed"
	case Chordjack:
		return "chordjack"
	case Technical:
		return "technical"
	default:
		return "unknown"
	}
}

// Parse resolves a skillset from its name, case-insensitively.
func Parse(name string) (Skillset, error) {
	for _, s := range All() {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSkillset, name)
}

// ScoreSet holds one difficulty value per skillset plus the derived overall.
// It is an immutable value type; every field is non-negative and finite for
// any set the engine emits.
type ScoreSet struct {
	Overall    float64 `json:"overall"`
	Stream     float64 `json:"stream"`
	Jumpstream float64 `json:"jumpstream"`
	Handstream float64 `json:"handstream"`
	Stamina    float64 `json:"stamina"`
	JackSpeed  float64 `json:"jackspeed"`
	Chordjack  float64 `json:"chordjack"`
	Technical  float64 `json:"technical"`
}

// FromValues builds a ScoreSet from per-skillset values in canonical order
// plus a precomputed overall.
func FromValues(values [Count]float64, overall float64) ScoreSet {
	return ScoreSet{
		Overall:    overall,
		Stream:     values[Stream],
		Jumpstream: values[Jumpstream],
		Handstream: values[Handstream],
		Stamina:    values[Stamina],
		JackSpeed:  values[JackSpeed],
		Chordjack:  values[Chordjack],
		Technical:  values[Technical],
	}
}

// Value returns the score for one skillset.
func (s ScoreSet) Value(k Skillset) float64 {
	switch k {
	case Stream:
		return s.Stream
	case Jumpstream:
		return s.Jumpstream
	case Handstream:
		return s.Handstream
	case Stamina:
		return s.Stamina
	case JackSpeed:
		return s.JackSpeed
	case Chordjack:
		return s.Chordjack
	case Technical:
		return s.Technical
	default:
		return 0
	}
}

// Values returns the seven skillset scores in canonical order, excluding
// the overall.
func (s ScoreSet) Values() [Count]float64 {
	var out [Count]float64
	for _, k := range All() {
		out[k] = s.Value(k)
	}
	return out
}

// Max returns the highest skillset score.
func (s ScoreSet) Max() float64 {
	max := 0.0
	for _, v := range s.Values() {
		if v > max {
			max = v
		}
	}
	return max
}

// Dominant returns the skillset with the highest score. Ties resolve to
// the earlier skillset in canonical order.
func (s ScoreSet) Dominant() Skillset {
	best := Stream
	bestValue := s.Value(Stream)
	for _, k := range All() {
		if v := s.Value(k); v > bestValue {
			best = k
			bestValue = v
		}
	}
	return best
}

// Finite reports whether every field, overall included, is a non-negative
// finite number.
func (s ScoreSet) Finite() bool {
	fields := s.Values()
	all := append(fields[:], s.Overall)
	for _, v := range all {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
