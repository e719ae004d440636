package analysis

import (
	"github.com/seiru/msdcalc/internal/timeline"
)

// rowMergeGap groups events closer than this into one row. Chart formats
// quantize to the millisecond, so anything tighter is the same instant.
const rowMergeGap = 0.001

// row is one instant of the chart: every tappable note sharing a
// timestamp. Hold ends and mines carry no tap density and are dropped.
type row struct {
	time  float64
	mask  uint32 // bit i set when column i holds a note
	count int
}

// buildRows collapses a timeline into rows, preserving time order.
func buildRows(tl timeline.Timeline) []row {
	rows := make([]row, 0, len(tl.Events))
	for _, e := range tl.Events {
		if e.Kind != timeline.Tap && e.Kind != timeline.HoldStart {
			continue
		}
		bit := uint32(1) << uint(e.Column)
		if n := len(rows); n > 0 && e.Time-rows[n-1].time < rowMergeGap {
			last := &rows[n-1]
			if last.mask&bit == 0 {
				last.mask |= bit
				last.count++
			}
			continue
		}
		rows = append(rows, row{time: e.Time, mask: bit, count: 1})
	}
	return rows
}
