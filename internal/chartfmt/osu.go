package chartfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seiru/msdcalc/internal/timeline"
)

// osu!mania game mode identifier in the [General] section.
const osuModeMania = 3

// Hit object type bits. Mania charts only use circles and holds.
const (
	osuTypeCircle = 1 << 0
	osuTypeHold   = 1 << 7
)

// parseOsu parses an osu!mania beatmap. Times are integer milliseconds,
// columns are encoded in the x coordinate as floor(x*keys/512), and holds
// carry their end time in the sixth field.
func parseOsu(data []byte) (timeline.Timeline, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")

	mode := -1
	keys := 0
	section := ""
	var events []timeline.NoteEvent

	headerSeen := false
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !headerSeen {
			if !strings.HasPrefix(line, "osu file format v") {
				return timeline.Timeline{}, fmt.Errorf("%w: missing osu version header", ErrMalformedHeader)
			}
			headerSeen = true
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.Trim(line, "[]")
			continue
		}

		switch section {
		case "General":
			if key, value, ok := osuKeyValue(line); ok && key == "Mode" {
				m, err := strconv.Atoi(value)
				if err != nil {
					return timeline.Timeline{}, fmt.Errorf("%w: Mode %q", ErrMalformedHeader, value)
				}
				mode = m
			}
		case "Difficulty":
			if key, value, ok := osuKeyValue(line); ok && key == "CircleSize" {
				cs, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return timeline.Timeline{}, fmt.Errorf("%w: CircleSize %q", ErrMalformedHeader, value)
				}
				keys = int(cs)
			}
		case "HitObjects":
			if mode != osuModeMania {
				return timeline.Timeline{}, fmt.Errorf("%w: osu mode %d is not mania", ErrUnsupportedFormat, mode)
			}
			if keys < timeline.MinColumns || keys > timeline.MaxColumns {
				return timeline.Timeline{}, fmt.Errorf("%w: %d-key osu chart", ErrUnsupportedFormat, keys)
			}
			evs, err := parseOsuHitObject(line, i+1, keys)
			if err != nil {
				return timeline.Timeline{}, err
			}
			events = append(events, evs...)
		}
	}

	if !headerSeen {
		return timeline.Timeline{}, fmt.Errorf("%w: empty osu file", ErrMalformedHeader)
	}
	if mode != osuModeMania {
		return timeline.Timeline{}, fmt.Errorf("%w: osu mode %d is not mania", ErrUnsupportedFormat, mode)
	}
	if keys < timeline.MinColumns || keys > timeline.MaxColumns {
		return timeline.Timeline{}, fmt.Errorf("%w: %d-key osu chart", ErrUnsupportedFormat, keys)
	}

	return finish(events, keys)
}

// parseOsuHitObject decodes one "x,y,time,type,hitSound,..." line into note
// events. Object types other than circles and holds are skipped.
func parseOsuHitObject(line string, lineNo, keys int) ([]timeline.NoteEvent, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 5 {
		return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedEvent, lineNo, len(fields))
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: line %d x %q", ErrMalformedEvent, lineNo, fields[0])
	}
	ms, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return nil, fmt.Errorf("%w: line %d time %q", ErrMalformedEvent, lineNo, fields[2])
	}
	objType, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return nil, fmt.Errorf("%w: line %d type %q", ErrMalformedEvent, lineNo, fields[3])
	}

	column := int(x * float64(keys) / 512.0)
	if column < 0 || column >= keys {
		return nil, fmt.Errorf("%w: line %d column %d of %d", ErrMalformedEvent, lineNo, column, keys)
	}
	start := float64(ms) / 1000.0

	switch {
	case objType&osuTypeHold != 0:
		if len(fields) < 6 {
			return nil, fmt.Errorf("%w: line %d hold without end time", ErrMalformedEvent, lineNo)
		}
		endField, _, _ := strings.Cut(strings.TrimSpace(fields[5]), ":")
		endMs, err := strconv.Atoi(endField)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d hold end %q", ErrMalformedEvent, lineNo, endField)
		}
		if endMs < ms {
			return nil, fmt.Errorf("%w: line %d hold ends before it starts", ErrMalformedEvent, lineNo)
		}
		return []timeline.NoteEvent{
			{Time: start, Column: column, Kind: timeline.HoldStart},
			{Time: float64(endMs) / 1000.0, Column: column, Kind: timeline.HoldEnd},
		}, nil
	case objType&osuTypeCircle != 0:
		return []timeline.NoteEvent{{Time: start, Column: column, Kind: timeline.Tap}}, nil
	default:
		// Sliders and spinners do not occur in mania; ignore them if present.
		return nil, nil
	}
}

// osuKeyValue splits a "Key: value" header line.
func osuKeyValue(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
