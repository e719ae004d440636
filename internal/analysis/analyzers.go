package analysis

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/seiru/msdcalc/internal/skillset"
	"github.com/seiru/msdcalc/internal/timeline"
)

// Pattern weighting constants.
const (
	chordBonusPerNote = 0.35 // density bonus per extra note in a chord
	techFloor         = 0.2  // density share kept on perfectly regular rhythm
	techGain          = 0.8  // density share driven by rhythmic irregularity
)

// Analyze runs all seven analyzers over the timeline and returns their
// values in canonical skillset order. The analyzers run concurrently;
// each writes only its own slot. Timelines reaching past
// timeline.MaxSeconds are rejected; non-finite output is a defect
// surfaced as ErrNotFinite.
func Analyze(tl timeline.Timeline, p Params) ([skillset.Count]float64, error) {
	var out [skillset.Count]float64
	if err := p.Validate(); err != nil {
		return out, err
	}
	if err := checkSpan(tl); err != nil {
		return out, err
	}

	rows := buildRows(tl)

	var wg sync.WaitGroup
	for _, k := range skillset.All() {
		wg.Add(1)
		go func(k skillset.Skillset) {
			defer wg.Done()
			out[k] = analyzeOne(k, rows, p)
		}(k)
	}
	wg.Wait()

	for k, v := range out {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return [skillset.Count]float64{}, fmt.Errorf("%w: %s = %v", ErrNotFinite, skillset.Skillset(k), v)
		}
	}
	return out, nil
}

// AnalyzeOne computes a single skillset value. Exposed for calibration
// tooling; Analyze is the production entry point.
func AnalyzeOne(k skillset.Skillset, tl timeline.Timeline, p Params) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := checkSpan(tl); err != nil {
		return 0, err
	}
	v := analyzeOne(k, buildRows(tl), p)
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s = %v", ErrNotFinite, k, v)
	}
	return v, nil
}

// checkSpan rejects timelines whose events sit beyond the representable
// timestamp bound; the window walk needs stride arithmetic to stay
// exact out to the last event.
func checkSpan(tl timeline.Timeline) error {
	if n := len(tl.Events); n > 0 && tl.Events[n-1].Time > timeline.MaxSeconds {
		return fmt.Errorf("%w: event at %v seconds exceeds the %v bound", timeline.ErrInvalidTimeline, tl.Events[n-1].Time, timeline.MaxSeconds)
	}
	return nil
}

func analyzeOne(k skillset.Skillset, rows []row, p Params) float64 {
	window := p.WindowSeconds
	exponent := p.SmoothExponent

	var samples []sample
	switch k {
	case skillset.Stream:
		samples = streamSamples(rows, p)
	case skillset.Jumpstream:
		samples = chordStreamSamples(rows, p, 2)
	case skillset.Handstream:
		samples = chordStreamSamples(rows, p, 3)
	case skillset.Stamina:
		samples = staminaSamples(rows, p)
		window = p.StaminaWindowSeconds
		exponent = p.StaminaExponent
	case skillset.JackSpeed:
		samples = jackSamples(rows, p)
	case skillset.Chordjack:
		samples = chordjackSamples(rows, p)
	case skillset.Technical:
		samples = technicalSamples(rows, p)
	}

	raw := reduce(samples, window, p.StrideSeconds, exponent)
	return raw * p.BaseScale * p.Scales[k]
}

// interval returns the clamped gap between two rows.
func interval(prev, cur row, p Params) float64 {
	return math.Max(cur.time-prev.time, p.MinInterval)
}

// chordFactor boosts density for rows carrying extra notes.
func chordFactor(count int) float64 {
	return 1 + chordBonusPerNote*float64(count-1)
}

// streamSamples covers single-note rows alternating across columns.
// Same-column repeats are jacks, not stream, and contribute nothing.
func streamSamples(rows []row, p Params) []sample {
	samples := make([]sample, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.count != 1 || cur.count != 1 || prev.mask == cur.mask {
			continue
		}
		samples = append(samples, sample{
			time:   cur.time,
			value:  1 / interval(prev, cur, p),
			weight: 1,
		})
	}
	return samples
}

// chordStreamSamples covers streams interleaved with chords up to
// maxChord notes. Wider rows break the pattern. Chord rows weigh into
// the window statistic by their note count.
func chordStreamSamples(rows []row, p Params, maxChord int) []sample {
	samples := make([]sample, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.count > maxChord || cur.count > maxChord {
			continue
		}
		if prev.count == 1 && cur.count == 1 && prev.mask == cur.mask {
			continue
		}
		samples = append(samples, sample{
			time:   cur.time,
			value:  chordFactor(cur.count) / interval(prev, cur, p),
			weight: float64(cur.count),
		})
	}
	return samples
}

// staminaSamples covers the whole timeline's output without pattern
// gating; the long window in the caller does the rest.
func staminaSamples(rows []row, p Params) []sample {
	samples := make([]sample, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		samples = append(samples, sample{
			time:   cur.time,
			value:  chordFactor(cur.count) / interval(prev, cur, p),
			weight: 1,
		})
	}
	return samples
}

// jackSamples covers same-column repeats within the jack interval.
func jackSamples(rows []row, p Params) []sample {
	samples := make([]sample, 0, len(rows))
	var lastSeen [timeline.MaxColumns]float64
	for i := range lastSeen {
		lastSeen[i] = math.Inf(-1)
	}
	for _, r := range rows {
		for c := 0; c < timeline.MaxColumns; c++ {
			if r.mask&(1<<uint(c)) == 0 {
				continue
			}
			gap := r.time - lastSeen[c]
			lastSeen[c] = r.time
			if gap > p.MaxJackInterval {
				continue
			}
			samples = append(samples, sample{
				time:   r.time,
				value:  1 / math.Max(gap, p.MinInterval),
				weight: 1,
			})
		}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].time < samples[j].time })
	return samples
}

// chordjackSamples covers chords recurring within the jack interval that
// share at least one column with the previous chord.
func chordjackSamples(rows []row, p Params) []sample {
	samples := make([]sample, 0, len(rows))
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.count < 2 || cur.count < 2 {
			continue
		}
		if prev.mask&cur.mask == 0 {
			continue
		}
		if cur.time-prev.time > p.MaxJackInterval {
			continue
		}
		samples = append(samples, sample{
			time:   cur.time,
			value:  chordFactor(cur.count) / interval(prev, cur, p),
			weight: 1,
		})
	}
	return samples
}

// technicalSamples weighs density by the normalized variation between
// successive intervals, so metronomic passages score low and broken
// rhythms score near full density.
func technicalSamples(rows []row, p Params) []sample {
	if len(rows) < 3 {
		return nil
	}
	samples := make([]sample, 0, len(rows)-2)
	for i := 2; i < len(rows); i++ {
		prevGap := interval(rows[i-2], rows[i-1], p)
		curGap := interval(rows[i-1], rows[i], p)
		irregularity := math.Abs(curGap-prevGap) / math.Max(curGap, prevGap)
		samples = append(samples, sample{
			time:   rows[i].time,
			value:  (techFloor + techGain*irregularity) / curGap,
			weight: 1,
		})
	}
	return samples
}
