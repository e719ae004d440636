package chartfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/seiru/msdcalc/internal/timeline"
)

// parseNoteRows parses the minimal columnar interchange format: one row per
// line as "<seconds> <column-bitmask>", where bit i of the mask is a tap in
// column i. "#" starts a comment. Rows may appear in any order.
func parseNoteRows(data []byte) (timeline.Timeline, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")

	columns := timeline.MinColumns
	var events []timeline.NoteEvent

	for i, raw := range strings.Split(text, "\n") {
		line, _, _ := strings.Cut(raw, "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return timeline.Timeline{}, fmt.Errorf("%w: line %d has %d fields", ErrMalformedEvent, i+1, len(fields))
		}

		seconds, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return timeline.Timeline{}, fmt.Errorf("%w: line %d time %q", ErrMalformedEvent, i+1, fields[0])
		}
		if math.IsNaN(seconds) || seconds < 0 || seconds > timeline.MaxSeconds {
			return timeline.Timeline{}, fmt.Errorf("%w: line %d time %v", ErrMalformedEvent, i+1, seconds)
		}

		mask, err := strconv.ParseUint(fields[1], 0, 32)
		if err != nil {
			return timeline.Timeline{}, fmt.Errorf("%w: line %d mask %q", ErrMalformedEvent, i+1, fields[1])
		}
		if mask == 0 {
			return timeline.Timeline{}, fmt.Errorf("%w: line %d has an empty mask", ErrMalformedEvent, i+1)
		}

		for col := 0; col < 32; col++ {
			if mask&(1<<col) == 0 {
				continue
			}
			if col >= timeline.MaxColumns {
				return timeline.Timeline{}, fmt.Errorf("%w: line %d column %d out of range", ErrMalformedEvent, i+1, col)
			}
			if col >= columns {
				columns = col + 1
			}
			events = append(events, timeline.NoteEvent{Time: seconds, Column: col, Kind: timeline.Tap})
		}
	}

	return finish(events, columns)
}
