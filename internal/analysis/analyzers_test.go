package analysis_test

import (
	"errors"
	"testing"

	"github.com/seiru/msdcalc/internal/analysis"
	"github.com/seiru/msdcalc/internal/skillset"
	"github.com/seiru/msdcalc/internal/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

// rotatingTaps builds n single taps cycling through the columns.
func rotatingTaps(n int, gap float64, columns int) timeline.Timeline {
	events := make([]timeline.NoteEvent, n)
	for i := 0; i < n; i++ {
		events[i] = timeline.NoteEvent{Time: float64(i) * gap, Column: i % columns, Kind: timeline.Tap}
	}
	return timeline.Timeline{Events: events, Columns: columns}
}

// columnTaps builds n taps hammering one column.
func columnTaps(n int, gap float64, column int) timeline.Timeline {
	events := make([]timeline.NoteEvent, n)
	for i := 0; i < n; i++ {
		events[i] = timeline.NoteEvent{Time: float64(i) * gap, Column: column, Kind: timeline.Tap}
	}
	return timeline.Timeline{Events: events, Columns: 4}
}

// overlappingChords builds n two-note chords that always share a column
// with the previous chord.
func overlappingChords(n int, gap float64) timeline.Timeline {
	events := make([]timeline.NoteEvent, 0, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) * gap
		first := i % 2 // alternate between {0,1} and {1,2}
		events = append(events,
			timeline.NoteEvent{Time: t, Column: first, Kind: timeline.Tap},
			timeline.NoteEvent{Time: t, Column: first + 1, Kind: timeline.Tap},
		)
	}
	return timeline.Timeline{Events: events, Columns: 4}
}

func TestAnalyze_PatternSeparation(t *testing.T) {
	Convey("Given a 4-column stream of 200ms taps", t, func() {
		tl := rotatingTaps(120, 0.2, 4)

		Convey("When analyzing with default params", func() {
			values, err := analysis.Analyze(tl, analysis.DefaultParams())

			Convey("Then stream dominates and jack patterns stay near zero", func() {
				So(err, ShouldBeNil)
				So(values[skillset.Stream], ShouldBeGreaterThan, 5)
				So(values[skillset.JackSpeed], ShouldAlmostEqual, 0, 1e-9)
				So(values[skillset.Chordjack], ShouldAlmostEqual, 0, 1e-9)
				So(values[skillset.Stream], ShouldBeGreaterThan, values[skillset.Technical])
			})
		})
	})

	Convey("Given a single-column jack chart", t, func() {
		tl := columnTaps(80, 0.15, 1)

		Convey("When analyzing with default params", func() {
			values, err := analysis.Analyze(tl, analysis.DefaultParams())

			Convey("Then jackspeed dominates and stream stays at zero", func() {
				So(err, ShouldBeNil)
				So(values[skillset.JackSpeed], ShouldBeGreaterThan, 5)
				So(values[skillset.Stream], ShouldAlmostEqual, 0, 1e-9)
			})
		})
	})

	Convey("Given a chart of overlapping chords", t, func() {
		tl := overlappingChords(80, 0.18)

		Convey("When analyzing with default params", func() {
			values, err := analysis.Analyze(tl, analysis.DefaultParams())

			Convey("Then chordjack scores well above stream", func() {
				So(err, ShouldBeNil)
				So(values[skillset.Chordjack], ShouldBeGreaterThan, 5)
				So(values[skillset.Stream], ShouldAlmostEqual, 0, 1e-9)
			})
		})
	})
}

func TestAnalyze_EdgeCases(t *testing.T) {
	Convey("Given a chart with a single isolated note", t, func() {
		tl := timeline.Timeline{
			Events:  []timeline.NoteEvent{{Time: 1.0, Column: 2, Kind: timeline.Tap}},
			Columns: 4,
		}

		Convey("When analyzing", func() {
			values, err := analysis.Analyze(tl, analysis.DefaultParams())

			Convey("Then every skillset is near zero without error", func() {
				So(err, ShouldBeNil)
				for _, v := range values {
					So(v, ShouldAlmostEqual, 0, 1e-9)
				}
			})
		})
	})

	Convey("Given a chart shorter than one window", t, func() {
		tl := rotatingTaps(6, 0.2, 4) // one second of notes

		Convey("When analyzing", func() {
			values, err := analysis.Analyze(tl, analysis.DefaultParams())

			Convey("Then the single global statistic is used", func() {
				So(err, ShouldBeNil)
				So(values[skillset.Stream], ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given two bursts split by a vast silence", t, func() {
		events := make([]timeline.NoteEvent, 0, 80)
		for i := 0; i < 40; i++ {
			events = append(events, timeline.NoteEvent{Time: float64(i) * 0.2, Column: i % 4, Kind: timeline.Tap})
		}
		for i := 0; i < 40; i++ {
			events = append(events, timeline.NoteEvent{Time: 9.9e6 + float64(i)*0.2, Column: i % 4, Kind: timeline.Tap})
		}
		tl := timeline.Timeline{Events: events, Columns: 4}

		Convey("When analyzing", func() {
			values, err := analysis.Analyze(tl, analysis.DefaultParams())

			Convey("Then the silence is crossed without cost and the bursts score", func() {
				So(err, ShouldBeNil)
				So(values[skillset.Stream], ShouldBeGreaterThan, 5)
				So(values[skillset.JackSpeed], ShouldAlmostEqual, 0, 1e-9)
			})
		})
	})

	Convey("Given a chart reaching past the timestamp bound", t, func() {
		tl := timeline.Timeline{
			Events: []timeline.NoteEvent{
				{Time: 0, Column: 0, Kind: timeline.Tap},
				{Time: 2 * timeline.MaxSeconds, Column: 1, Kind: timeline.Tap},
			},
			Columns: 4,
		}

		Convey("When analyzing", func() {
			_, err := analysis.Analyze(tl, analysis.DefaultParams())

			Convey("Then the timeline is rejected", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, timeline.ErrInvalidTimeline), ShouldBeTrue)
			})
		})

		Convey("When computing one skillset in isolation", func() {
			_, err := analysis.AnalyzeOne(skillset.Stream, tl, analysis.DefaultParams())

			Convey("Then the timeline is rejected the same way", func() {
				So(errors.Is(err, timeline.ErrInvalidTimeline), ShouldBeTrue)
			})
		})
	})

	Convey("Given hold bodies and mines mixed into a stream", t, func() {
		tl := rotatingTaps(40, 0.2, 4)
		events := append([]timeline.NoteEvent{}, tl.Events...)
		events = append(events,
			timeline.NoteEvent{Time: 0.05, Column: 3, Kind: timeline.Mine},
			timeline.NoteEvent{Time: 0.25, Column: 3, Kind: timeline.HoldEnd},
		)
		timeline.Sort(events)
		mixed := timeline.Timeline{Events: events, Columns: 4}

		Convey("When analyzing", func() {
			base, err := analysis.Analyze(tl, analysis.DefaultParams())
			So(err, ShouldBeNil)
			withNoise, err := analysis.Analyze(mixed, analysis.DefaultParams())

			Convey("Then non-tap events add no density", func() {
				So(err, ShouldBeNil)
				So(withNoise[skillset.Stream], ShouldAlmostEqual, base[skillset.Stream], 1e-9)
			})
		})
	})
}

func TestAnalyze_Determinism(t *testing.T) {
	Convey("Given any chart", t, func() {
		tl := rotatingTaps(200, 0.17, 4)

		Convey("When analyzing twice", func() {
			first, err1 := analysis.Analyze(tl, analysis.DefaultParams())
			second, err2 := analysis.Analyze(tl, analysis.DefaultParams())

			Convey("Then the results are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})
		})

		Convey("When computing one skillset in isolation", func() {
			all, err := analysis.Analyze(tl, analysis.DefaultParams())
			So(err, ShouldBeNil)
			one, err := analysis.AnalyzeOne(skillset.Stream, tl, analysis.DefaultParams())

			Convey("Then it matches the combined run", func() {
				So(err, ShouldBeNil)
				So(one, ShouldAlmostEqual, all[skillset.Stream], 1e-12)
			})
		})
	})
}

func TestParams_Validate(t *testing.T) {
	Convey("Given the default params", t, func() {
		Convey("Then they validate", func() {
			So(analysis.DefaultParams().Validate(), ShouldBeNil)
		})

		Convey("When the window is zero", func() {
			p := analysis.DefaultParams()
			p.WindowSeconds = 0

			Convey("Then validation fails", func() {
				So(p.Validate(), ShouldNotBeNil)
			})
		})

		Convey("When the smooth exponent does not exceed 1", func() {
			p := analysis.DefaultParams()
			p.SmoothExponent = 1.0

			Convey("Then validation fails", func() {
				So(p.Validate(), ShouldNotBeNil)
			})
		})

		Convey("When the stride drops below a millisecond", func() {
			p := analysis.DefaultParams()
			p.StrideSeconds = 0.0005

			Convey("Then validation fails", func() {
				So(p.Validate(), ShouldNotBeNil)
				So(p.Validate().Error(), ShouldContainSubstring, "stride_seconds")
			})
		})

		Convey("When a skillset scale is negative", func() {
			p := analysis.DefaultParams()
			p.Scales[skillset.Stamina] = -1

			Convey("Then validation fails", func() {
				So(p.Validate(), ShouldNotBeNil)
			})
		})

		Convey("When analyzing with broken params", func() {
			p := analysis.DefaultParams()
			p.MinInterval = 0
			_, err := analysis.Analyze(rotatingTaps(10, 0.2, 4), p)

			Convey("Then the error names the invalid field", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "min_interval")
			})
		})
	})
}

func TestAnalyze_RateScalingRaisesDifficulty(t *testing.T) {
	Convey("Given a stream chart", t, func() {
		tl := rotatingTaps(120, 0.2, 4)

		Convey("When comparing 1.0x against 1.5x", func() {
			base, err := analysis.Analyze(tl, analysis.DefaultParams())
			So(err, ShouldBeNil)

			faster, err := tl.Scale(1.5)
			So(err, ShouldBeNil)
			scaled, err := analysis.Analyze(faster, analysis.DefaultParams())

			Convey("Then the faster chart rates harder", func() {
				So(err, ShouldBeNil)
				So(scaled[skillset.Stream], ShouldBeGreaterThan, base[skillset.Stream])
			})
		})
	})
}
