package chartfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seiru/msdcalc/internal/timeline"
)

// smKeyCounts maps StepMania chart types to their column counts.
var smKeyCounts = map[string]int{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
	"pump-single":  5,
	"kb7-single":   7,
}

// smRowChars is the set of note characters a row line may contain.
const smRowChars = "01234MKLF"

// bpmSegment is one entry of the #BPMS tag: from startBeat onward the chart
// runs at bpm beats per minute.
type bpmSegment struct {
	startBeat float64
	bpm       float64
}

// smSection is one #NOTES block: a chart type, its meter, and the raw
// measure data.
type smSection struct {
	keys     int
	meter    int
	measures string
}

// parseSM parses a StepMania simfile. Header tags supply the audio offset
// and BPM segments; each #NOTES section holds one difficulty as measures of
// row lines separated by commas, four beats per measure. When a file carries
// several supported difficulties the highest-meter one is parsed.
func parseSM(data []byte) (timeline.Timeline, error) {
	text := strings.ReplaceAll(strings.TrimPrefix(string(data), "\ufeff"), "\r", "")
	text = stripLineComments(text)

	parts := strings.Split(text, "#NOTES:")
	if len(parts) < 2 {
		return timeline.Timeline{}, fmt.Errorf("%w: missing #NOTES section", ErrMalformedHeader)
	}

	offset, bpms, err := parseSMHeader(parts[0])
	if err != nil {
		return timeline.Timeline{}, err
	}

	section, err := pickSMSection(parts[1:])
	if err != nil {
		return timeline.Timeline{}, err
	}

	events, err := parseSMMeasures(section, offset, bpms)
	if err != nil {
		return timeline.Timeline{}, err
	}

	// Positive #OFFSET values can place the first row before zero; shift the
	// whole chart so analysis sees non-negative times with intervals intact.
	shiftNonNegative(events)

	return finish(events, section.keys)
}

// parseSMHeader extracts the start time and BPM segments from the tag block
// before the first #NOTES section.
func parseSMHeader(header string) (float64, []bpmSegment, error) {
	start := 0.0
	if raw, ok := smTagValue(header, "OFFSET"); ok {
		off, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: OFFSET %q", ErrMalformedHeader, raw)
		}
		// The tag stores how far the audio is offset; the first beat lands
		// at its negation.
		start = -off
	}

	raw, ok := smTagValue(header, "BPMS")
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, nil, fmt.Errorf("%w: missing #BPMS tag", ErrMalformedHeader)
	}
	raw = strings.ReplaceAll(raw, "\n", "")

	var bpms []bpmSegment
	for _, pair := range strings.Split(raw, ",") {
		beatField, bpmField, found := strings.Cut(pair, "=")
		if !found {
			return 0, nil, fmt.Errorf("%w: BPMS entry %q", ErrMalformedHeader, pair)
		}
		beat, err := strconv.ParseFloat(strings.TrimSpace(beatField), 64)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: BPMS beat %q", ErrMalformedHeader, beatField)
		}
		bpm, err := strconv.ParseFloat(strings.TrimSpace(bpmField), 64)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: BPMS value %q", ErrMalformedHeader, bpmField)
		}
		if bpm <= 0 {
			return 0, nil, fmt.Errorf("%w: non-positive bpm %v", ErrMalformedHeader, bpm)
		}
		bpms = append(bpms, bpmSegment{startBeat: beat, bpm: bpm})
	}
	return start, bpms, nil
}

// smTagValue returns the value of "#TAG:value;" inside header.
func smTagValue(header, tag string) (string, bool) {
	idx := strings.Index(header, "#"+tag+":")
	if idx < 0 {
		return "", false
	}
	rest := header[idx+len(tag)+2:]
	end := strings.Index(rest, ";")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// pickSMSection parses the #NOTES blocks and selects the supported one with
// the highest meter. Sections of unsupported chart types are skipped.
func pickSMSection(blocks []string) (smSection, error) {
	best := smSection{meter: -1}
	found := false
	for _, block := range blocks {
		block, _, _ = strings.Cut(block, ";")
		fields := strings.SplitN(block, ":", 6)
		if len(fields) < 6 {
			return smSection{}, fmt.Errorf("%w: truncated #NOTES section", ErrMalformedHeader)
		}
		keys, ok := smKeyCounts[strings.TrimSpace(fields[0])]
		if !ok {
			continue
		}
		meter, err := strconv.Atoi(strings.TrimSpace(fields[3]))
		if err != nil {
			meter = 0
		}
		if !found || meter >= best.meter {
			best = smSection{keys: keys, meter: meter, measures: fields[5]}
			found = true
		}
	}
	if !found {
		return smSection{}, fmt.Errorf("%w: no supported chart type in simfile", ErrUnsupportedFormat)
	}
	return best, nil
}

// parseSMMeasures walks the measure blocks of one section, converting beats
// to seconds through the BPM segments. Each measure spans four beats divided
// evenly across its row lines.
func parseSMMeasures(section smSection, start float64, bpms []bpmSegment) ([]timeline.NoteEvent, error) {
	seconds := start
	beat := 0.0
	var events []timeline.NoteEvent

	for _, measure := range strings.Split(section.measures, ",") {
		var rows []string
		for _, line := range strings.Split(measure, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			rows = append(rows, line)
		}

		// A measure with no rows still spans four beats of time.
		if len(rows) == 0 {
			seconds += 4.0 * 60.0 / bpmAt(bpms, beat)
			beat += 4.0
			continue
		}

		beatsPerRow := 4.0 / float64(len(rows))
		for _, row := range rows {
			if len(row) != section.keys || strings.Trim(row, smRowChars) != "" {
				return nil, fmt.Errorf("%w: row %q in %d-key chart", ErrMalformedEvent, row, section.keys)
			}
			for col := 0; col < len(row); col++ {
				switch row[col] {
				case '1':
					events = append(events, timeline.NoteEvent{Time: seconds, Column: col, Kind: timeline.Tap})
				case '2', '4':
					events = append(events, timeline.NoteEvent{Time: seconds, Column: col, Kind: timeline.HoldStart})
				case '3':
					events = append(events, timeline.NoteEvent{Time: seconds, Column: col, Kind: timeline.HoldEnd})
				case 'M':
					events = append(events, timeline.NoteEvent{Time: seconds, Column: col, Kind: timeline.Mine})
				}
			}
			seconds += beatsPerRow * 60.0 / bpmAt(bpms, beat)
			beat += beatsPerRow
		}
	}
	return events, nil
}

// bpmAt returns the BPM in effect at the given beat. Segments are in file
// order; the last segment whose start beat has been reached wins.
func bpmAt(segments []bpmSegment, beat float64) float64 {
	bpm := segments[0].bpm
	for _, s := range segments {
		if beat >= s.startBeat {
			bpm = s.bpm
		} else {
			break
		}
	}
	return bpm
}

// stripLineComments removes "//" comments, which simfiles allow anywhere.
func stripLineComments(text string) string {
	if !strings.Contains(text, "//") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "//"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

// shiftNonNegative moves the whole chart forward when any event sits before
// time zero. Intervals are untouched, so difficulty is unaffected.
func shiftNonNegative(events []timeline.NoteEvent) {
	min := 0.0
	for _, ev := range events {
		if ev.Time < min {
			min = ev.Time
		}
	}
	if min >= 0 {
		return
	}
	for i := range events {
		events[i].Time -= min
	}
}
