// Package chartfmt parses rhythm-game chart files into note timelines.
//
// Three formats are supported: osu!mania .osu files, StepMania .sm files,
// and the plain columnar noterows format. Detection runs in that fixed
// priority order and never guesses: input that matches no format is
// rejected with ErrUnsupportedFormat rather than parsed speculatively.
// Parsing is pure. Parsers read the input, return a timeline or an error,
// and touch nothing else.
package chartfmt

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/seiru/msdcalc/internal/timeline"
)

// Format identifies one of the supported chart file formats.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatOsu
	FormatSM
	FormatNoteRows
)

// String returns the short lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatOsu:
		return "osu"
	case FormatSM:
		return "sm"
	case FormatNoteRows:
		return "noterows"
	default:
		return "unknown"
	}
}

// Detect inspects raw chart bytes and reports the format, checking in fixed
// priority order: osu, then sm, then noterows. It returns FormatUnknown for
// blank input or input that matches none of the signatures.
func Detect(data []byte) Format {
	text := strings.TrimPrefix(string(data), "\ufeff")

	// The osu signature must be the first non-blank line.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "osu file format v") {
			return FormatOsu
		}
		break
	}

	if strings.Contains(text, "#NOTES:") {
		return FormatSM
	}

	// noterows: the first data line must be "<seconds> <column-bitmask>".
	for _, line := range strings.Split(text, "\n") {
		line, _, _ = strings.Cut(line, "#")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			break
		}
		if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
			break
		}
		if _, err := strconv.ParseUint(fields[1], 0, 32); err != nil {
			break
		}
		return FormatNoteRows
	}

	return FormatUnknown
}

// Parse detects the format of data and parses it into a timeline.
// Undetectable input fails with ErrUnsupportedFormat.
func Parse(data []byte) (timeline.Timeline, error) {
	f := Detect(data)
	if f == FormatUnknown {
		return timeline.Timeline{}, ErrUnsupportedFormat
	}
	return ParseFormat(data, f)
}

// ParseFormat parses data as the given format, skipping detection.
func ParseFormat(data []byte, f Format) (timeline.Timeline, error) {
	switch f {
	case FormatOsu:
		return parseOsu(data)
	case FormatSM:
		return parseSM(data)
	case FormatNoteRows:
		return parseNoteRows(data)
	default:
		return timeline.Timeline{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// ParseFile reads the file at path and parses it with format detection.
func ParseFile(path string) (timeline.Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return timeline.Timeline{}, fmt.Errorf("read chart: %w", err)
	}
	return Parse(data)
}

// IsChartPath reports whether path carries a recognized chart extension.
// Scanners use this to pick candidate files; parsing still relies on
// content detection.
func IsChartPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".osu", ".sm", ".rows":
		return true
	}
	return false
}

// finish applies the shared post-parse steps: reject charts with nothing to
// analyze, order events canonically, and validate structural invariants.
func finish(events []timeline.NoteEvent, columns int) (timeline.Timeline, error) {
	analyzable := false
	for _, ev := range events {
		if ev.Kind == timeline.Tap || ev.Kind == timeline.HoldStart {
			analyzable = true
			break
		}
	}
	if !analyzable {
		return timeline.Timeline{}, ErrEmptyChart
	}

	timeline.Sort(events)
	tl := timeline.Timeline{Events: events, Columns: columns}
	if err := tl.Validate(); err != nil {
		return timeline.Timeline{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return tl, nil
}
