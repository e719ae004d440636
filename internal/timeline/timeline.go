// Package timeline contains the canonical note timeline passed between
// pipeline stages.
package timeline

import (
	"fmt"
	"math"
	"sort"
)

// Column layout bounds. Four-key charts are the canonical minimum; wider
// layouts are kept as parsed up to MaxColumns.
const (
	MinColumns = 4
	MaxColumns = 10
)

// MaxSeconds caps event timestamps, raw and rate-scaled. The analysis
// stage walks sub-second window strides across timestamps; beyond this
// bound those strides would sink into float64 rounding error.
const MaxSeconds = 1e7

// NoteKind classifies a single note event.
type NoteKind uint8

const (
	Tap NoteKind = iota
	HoldStart
	HoldEnd
	Mine
)

// String returns the lowercase name of the kind.
func (k NoteKind) String() string {
	switch k {
	case Tap:
		return "tap"
	case HoldStart:
		return "hold-start"
	case HoldEnd:
		return "hold-end"
	case Mine:
		return "mine"
	default:
		return "unknown"
	}
}

// NoteEvent is one timed hit in a chart. Immutable once parsed.
type NoteEvent struct {
	Time   float64  // seconds from chart start
	Column int      // lane index, zero-based
	Kind   NoteKind // tap, hold boundary, or mine
}

// Timeline is an ordered sequence of note events for one chart.
// Events are sorted by time ascending, ties broken by column ascending.
// A Timeline is never mutated after construction; Scale returns a copy.
type Timeline struct {
	Events  []NoteEvent
	Columns int
}

// Sort orders events by time ascending with column as tie-breaker.
// Parsers call this once before building a Timeline.
func Sort(events []NoteEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Time != events[j].Time {
			return events[i].Time < events[j].Time
		}
		return events[i].Column < events[j].Column
	})
}

// Scale returns a new Timeline with every timestamp divided by rate.
// Higher rates compress the chart runtime. Count, columns, kinds, and
// relative order are preserved. Rate must be a positive finite number
// that keeps every scaled timestamp within MaxSeconds.
func (t Timeline) Scale(rate float64) (Timeline, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return Timeline{}, fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}

	events := make([]NoteEvent, len(t.Events))
	for i, e := range t.Events {
		scaled := e.Time / rate
		if scaled > MaxSeconds {
			return Timeline{}, fmt.Errorf("%w: %v scales event %d past %v seconds", ErrInvalidRate, rate, i, MaxSeconds)
		}
		events[i] = NoteEvent{
			Time:   scaled,
			Column: e.Column,
			Kind:   e.Kind,
		}
	}
	return Timeline{Events: events, Columns: t.Columns}, nil
}

// Validate checks the structural invariants: at least one event, a sane
// column count, timestamps within [0, MaxSeconds], and canonical ordering.
func (t Timeline) Validate() error {
	if len(t.Events) == 0 {
		return fmt.Errorf("%w: no events", ErrInvalidTimeline)
	}
	if t.Columns < MinColumns || t.Columns > MaxColumns {
		return fmt.Errorf("%w: column count %d", ErrInvalidTimeline, t.Columns)
	}
	for i, e := range t.Events {
		if math.IsNaN(e.Time) || e.Time < 0 || e.Time > MaxSeconds {
			return fmt.Errorf("%w: event %d has time %v", ErrInvalidTimeline, i, e.Time)
		}
		if e.Column < 0 || e.Column >= t.Columns {
			return fmt.Errorf("%w: event %d has column %d", ErrInvalidTimeline, i, e.Column)
		}
		if i == 0 {
			continue
		}
		prev := t.Events[i-1]
		if e.Time < prev.Time {
			return fmt.Errorf("%w: event %d out of order", ErrInvalidTimeline, i)
		}
		if e.Time == prev.Time && e.Column < prev.Column {
			return fmt.Errorf("%w: event %d breaks column tie order", ErrInvalidTimeline, i)
		}
	}
	return nil
}

// Duration returns the time span between the first and last event.
func (t Timeline) Duration() float64 {
	if len(t.Events) < 2 {
		return 0
	}
	return t.Events[len(t.Events)-1].Time - t.Events[0].Time
}

// Len returns the number of events.
func (t Timeline) Len() int {
	return len(t.Events)
}
