// Package chartgen builds synthetic charts with a known dominant pattern.
//
// Rows are generated deterministically from a seed; the same generator
// configuration always produces the same rows. Charts render as note row
// text that the chart parsers accept, or convert straight to a timeline.
package chartgen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/seiru/msdcalc/internal/timeline"
)

// Pattern selects the dominant pattern family of a generated chart.
type Pattern uint8

const (
	PatternStream Pattern = iota
	PatternJumpstream
	PatternHandstream
	PatternJacks
	PatternChordjack
	PatternTechnical
)

// String returns the lowercase name of the pattern.
func (p Pattern) String() string {
	switch p {
	case PatternStream:
		return "stream"
	case PatternJumpstream:
		return "jumpstream"
	case PatternHandstream:
		return "handstream"
	case PatternJacks:
		return "jacks"
	case PatternChordjack:
		return "chordjack"
	case PatternTechnical:
		return "technical"
	default:
		return "unknown"
	}
}

// Patterns returns every pattern family in declaration order.
func Patterns() []Pattern {
	return []Pattern{
		PatternStream,
		PatternJumpstream,
		PatternHandstream,
		PatternJacks,
		PatternChordjack,
		PatternTechnical,
	}
}

// ParsePattern resolves a pattern from its name, case-insensitively.
func ParsePattern(name string) (Pattern, error) {
	for _, p := range Patterns() {
		if strings.EqualFold(name, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}

// Row is one generated instant: a timestamp plus a column bitmask.
type Row struct {
	Time float64
	Mask uint32
}

// Chart is one generated chart.
type Chart struct {
	ID      string
	Pattern Pattern
	BPM     float64
	Columns int
	Rows    []Row
}

// NoteRows renders the chart as note row text, one "<seconds> <mask>"
// line per row, with a comment header the parsers skip.
func (c Chart) NoteRows() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# chart %s\n", c.ID)
	fmt.Fprintf(&b, "# pattern %s, %g bpm, %d columns\n", c.Pattern, c.BPM, c.Columns)
	for _, r := range c.Rows {
		fmt.Fprintf(&b, "%.6f %d\n", r.Time, r.Mask)
	}
	return b.String()
}

// Timeline converts the chart into the canonical event timeline.
func (c Chart) Timeline() timeline.Timeline {
	events := make([]timeline.NoteEvent, 0, len(c.Rows))
	for _, r := range c.Rows {
		for col := 0; col < c.Columns; col++ {
			if r.Mask&(1<<uint(col)) != 0 {
				events = append(events, timeline.NoteEvent{Time: r.Time, Column: col, Kind: timeline.Tap})
			}
		}
	}
	return timeline.Timeline{Events: events, Columns: c.Columns}
}

// Default generation constants.
const (
	defaultBPM     = 180.0
	defaultSeconds = 60.0
	defaultColumns = 4
	defaultSeed    = 1

	minBurst = 4 // shortest jack burst, in notes
	maxBurst = 8
)

// Generator builds charts for one pattern family.
type Generator struct {
	pattern Pattern
	bpm     float64
	seconds float64
	columns int
	seed    uint64
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithBPM sets the tempo of the generated chart.
func WithBPM(bpm float64) Option {
	return func(g *Generator) {
		if bpm > 0 {
			g.bpm = bpm
		}
	}
}

// WithSeconds sets the chart length.
func WithSeconds(seconds float64) Option {
	return func(g *Generator) {
		if seconds > 0 {
			g.seconds = seconds
		}
	}
}

// WithColumns sets the key count.
func WithColumns(columns int) Option {
	return func(g *Generator) {
		if columns >= timeline.MinColumns && columns <= timeline.MaxColumns {
			g.columns = columns
		}
	}
}

// WithSeed fixes the random source so runs are reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// New constructs a Generator with default configuration.
func New(pattern Pattern, opts ...Option) *Generator {
	g := &Generator{
		pattern: pattern,
		bpm:     defaultBPM,
		seconds: defaultSeconds,
		columns: defaultColumns,
		seed:    defaultSeed,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate builds one chart. Rows depend only on the generator
// configuration; the chart ID is fresh per call.
func (g *Generator) Generate() Chart {
	rng := rand.New(rand.NewPCG(g.seed, uint64(g.pattern)))

	var rows []Row
	switch g.pattern {
	case PatternJumpstream:
		rows = g.jumpstreamRows(rng)
	case PatternHandstream:
		rows = g.handstreamRows(rng)
	case PatternJacks:
		rows = g.jackRows(rng)
	case PatternChordjack:
		rows = g.chordjackRows(rng)
	case PatternTechnical:
		rows = g.technicalRows(rng)
	default:
		rows = g.streamRows(rng)
	}

	return Chart{
		ID:      uuid.New().String(),
		Pattern: g.pattern,
		BPM:     g.bpm,
		Columns: g.columns,
		Rows:    rows,
	}
}

// sixteenth returns the row interval for sixteenth notes at the
// generator tempo.
func (g *Generator) sixteenth() float64 {
	return 60 / g.bpm / 4
}

// nextColumn picks a random column different from prev.
func nextColumn(rng *rand.Rand, columns, prev int) int {
	if prev < 0 {
		return rng.IntN(columns)
	}
	col := rng.IntN(columns - 1)
	if col >= prev {
		col++
	}
	return col
}

// streamRows emits single notes on sixteenths, never repeating a column,
// so every transition reads as stream rather than jack.
func (g *Generator) streamRows(rng *rand.Rand) []Row {
	dt := g.sixteenth()
	n := int(g.seconds / dt)
	rows := make([]Row, 0, n)
	col := -1
	for i := 0; i < n; i++ {
		col = nextColumn(rng, g.columns, col)
		rows = append(rows, Row{Time: float64(i) * dt, Mask: 1 << uint(col)})
	}
	return rows
}

// jumpstreamRows alternates two-note chords with single notes on
// sixteenths. Jump masks alternate between the outer column pairs, so
// consecutive chords never share a column.
func (g *Generator) jumpstreamRows(rng *rand.Rand) []Row {
	dt := g.sixteenth()
	left := uint32(0b11)
	right := uint32(0b11) << uint(g.columns-2)
	n := int(g.seconds / dt)
	rows := make([]Row, 0, n)
	col := -1
	jump := left
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		if i%2 == 0 {
			rows = append(rows, Row{Time: t, Mask: jump})
			if jump == left {
				jump = right
			} else {
				jump = left
			}
			continue
		}
		col = nextColumn(rng, g.columns, col)
		rows = append(rows, Row{Time: t, Mask: 1 << uint(col)})
	}
	return rows
}

// handstreamRows drops a three-note chord on every beat with rotating
// single notes between, the classic dense handstream shape.
func (g *Generator) handstreamRows(rng *rand.Rand) []Row {
	dt := g.sixteenth()
	n := int(g.seconds / dt)
	rows := make([]Row, 0, n)
	col := -1
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		if i%4 == 0 {
			base := rng.IntN(g.columns - 2)
			rows = append(rows, Row{Time: t, Mask: 0b111 << uint(base)})
			continue
		}
		col = nextColumn(rng, g.columns, col)
		rows = append(rows, Row{Time: t, Mask: 1 << uint(col)})
	}
	return rows
}

// jackRows hammers one column at a time in short bursts. Notes inside a
// burst run at sixteenths and the move to the next column takes twice
// that, so the same-column repeats stay the fastest transitions in the
// chart.
func (g *Generator) jackRows(rng *rand.Rand) []Row {
	dt := g.sixteenth()
	var rows []Row
	t := 0.0
	col := -1
	for t < g.seconds {
		col = nextColumn(rng, g.columns, col)
		burst := minBurst + rng.IntN(maxBurst-minBurst+1)
		for b := 0; b < burst && t < g.seconds; b++ {
			rows = append(rows, Row{Time: t, Mask: 1 << uint(col)})
			t += dt
		}
		t += dt // extra rest before the column switch
	}
	return rows
}

// chordjackRows alternates four-note chords with two-note chords inside
// them on eighths. Every transition repeats columns, which is what the
// chordjack detector rewards, while the quads stay too wide for the
// chord-stream analyzers to claim.
func (g *Generator) chordjackRows(rng *rand.Rand) []Row {
	dt := 60 / g.bpm / 2
	quad := uint32(0b1111)
	pairs := []uint32{0b0011, 0b1100, 0b0110, 0b1001, 0b0101, 0b1010}
	n := int(g.seconds / dt)
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		if i%2 == 0 {
			rows = append(rows, Row{Time: t, Mask: quad})
			continue
		}
		rows = append(rows, Row{Time: t, Mask: pairs[rng.IntN(len(pairs))]})
	}
	return rows
}

// technicalRows emits rotating singles on a broken long-short rhythm.
// The irregular spacing reads far higher on the technical analyzer than
// a straight stream at the same tempo does.
func (g *Generator) technicalRows(rng *rand.Rand) []Row {
	short := g.sixteenth()
	long := 3 * short
	var rows []Row
	t := 0.0
	col := -1
	for i := 0; t < g.seconds; i++ {
		col = nextColumn(rng, g.columns, col)
		rows = append(rows, Row{Time: t, Mask: 1 << uint(col)})
		if i%2 == 0 {
			t += short
		} else {
			t += long
		}
	}
	return rows
}
