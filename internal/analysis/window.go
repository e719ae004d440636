package analysis

import "math"

// sample is one instantaneous density reading on a pattern stream.
type sample struct {
	time   float64 // seconds, position of the interval end
	value  float64 // effective notes per second
	weight float64 // pattern weight inside the window statistic
}

// reduce slides fixed-duration windows across the samples, computes the
// weighted mean of each window, and collapses the window statistics with
// a power mean. Windows anchor to the samples they cover: a silent
// stretch is crossed in one step, so work and memory scale with the
// sample count rather than the chart span. Timelines shorter than one
// window produce the single global statistic instead.
func reduce(samples []sample, window, stride, exponent float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	start := samples[0].time
	end := samples[len(samples)-1].time
	if end-start <= window {
		return windowMean(samples, 0, len(samples))
	}

	stats := make([]float64, 0, len(samples))
	lo, hi := 0, 0
	for ws := start; lo < len(samples); {
		// Nothing within a full window ahead: re-anchor at the next
		// sample instead of striding across the silence.
		if next := samples[lo].time; next >= ws+window {
			ws = next
		}
		we := ws + window
		for hi < len(samples) && samples[hi].time < we {
			hi++
		}
		stats = append(stats, windowMean(samples, lo, hi))
		if we >= end {
			break
		}
		ws += stride
		for lo < len(samples) && samples[lo].time < ws {
			lo++
		}
		if hi < lo {
			hi = lo
		}
	}
	return powerMean(stats, exponent)
}

// windowMean returns the weighted arithmetic mean of samples[lo:hi].
func windowMean(samples []sample, lo, hi int) float64 {
	var sum, weight float64
	for _, s := range samples[lo:hi] {
		sum += s.value * s.weight
		weight += s.weight
	}
	if weight == 0 {
		return 0
	}
	return sum / weight
}

// powerMean returns (sum(x^p)/n)^(1/p). Exponents above 1 bias the mean
// toward the hardest stretches without letting a single window dominate.
func powerMean(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += math.Pow(x, p)
	}
	return math.Pow(sum/float64(len(xs)), 1/p)
}
