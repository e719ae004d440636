package timeline_test

import (
	"math"
	"testing"

	"github.com/seiru/msdcalc/internal/timeline"
	. "github.com/smartystreets/goconvey/convey"
)

func evenTaps(n int, gap float64, columns int) timeline.Timeline {
	events := make([]timeline.NoteEvent, n)
	for i := 0; i < n; i++ {
		events[i] = timeline.NoteEvent{
			Time:   float64(i) * gap,
			Column: i % columns,
			Kind:   timeline.Tap,
		}
	}
	return timeline.Timeline{Events: events, Columns: columns}
}

func TestTimeline_Scale(t *testing.T) {
	Convey("Given a timeline of evenly spaced taps", t, func() {
		tl := evenTaps(10, 0.2, 4)

		Convey("When scaling by 2.0", func() {
			scaled, err := tl.Scale(2.0)

			Convey("Then every timestamp is halved", func() {
				So(err, ShouldBeNil)
				So(scaled.Len(), ShouldEqual, tl.Len())
				for i, e := range scaled.Events {
					So(e.Time, ShouldAlmostEqual, tl.Events[i].Time/2.0, 1e-12)
					So(e.Column, ShouldEqual, tl.Events[i].Column)
					So(e.Kind, ShouldEqual, tl.Events[i].Kind)
				}
			})

			Convey("And the original timeline is untouched", func() {
				So(err, ShouldBeNil)
				So(tl.Events[1].Time, ShouldAlmostEqual, 0.2, 1e-12)
			})
		})

		Convey("When scaling by r then by 1/r", func() {
			scaled, err := tl.Scale(1.3)
			So(err, ShouldBeNil)
			back, err := scaled.Scale(1 / 1.3)
			So(err, ShouldBeNil)

			Convey("Then timestamps round-trip within tolerance", func() {
				for i, e := range back.Events {
					So(e.Time, ShouldAlmostEqual, tl.Events[i].Time, 1e-9)
				}
			})
		})

		Convey("When scaling by an invalid rate", func() {
			for _, rate := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
				_, err := tl.Scale(rate)

				Convey("Then it fails with ErrInvalidRate for "+timelineRateLabel(rate), func() {
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldContainSubstring, timeline.ErrInvalidRate.Error())
				})
			}
		})

		Convey("When the rate stretches the chart past the timestamp bound", func() {
			_, err := tl.Scale(1e-9)

			Convey("Then it fails with ErrInvalidRate", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, timeline.ErrInvalidRate.Error())
			})
		})

		Convey("When the rate keeps the chart inside the timestamp bound", func() {
			scaled, err := tl.Scale(0.5)

			Convey("Then scaling succeeds", func() {
				So(err, ShouldBeNil)
				So(scaled.Events[9].Time, ShouldAlmostEqual, 3.6, 1e-12)
			})
		})
	})
}

func timelineRateLabel(rate float64) string {
	switch {
	case math.IsNaN(rate):
		return "NaN"
	case math.IsInf(rate, 1):
		return "+Inf"
	case math.IsInf(rate, -1):
		return "-Inf"
	case rate == 0:
		return "zero"
	default:
		return "negative"
	}
}

func TestTimeline_Validate(t *testing.T) {
	Convey("Given timelines in various states", t, func() {
		Convey("When the timeline is well formed", func() {
			tl := evenTaps(8, 0.25, 4)

			Convey("Then validation passes", func() {
				So(tl.Validate(), ShouldBeNil)
			})
		})

		Convey("When the timeline is empty", func() {
			tl := timeline.Timeline{Columns: 4}

			Convey("Then validation fails", func() {
				So(tl.Validate(), ShouldNotBeNil)
			})
		})

		Convey("When events are out of order", func() {
			tl := timeline.Timeline{
				Events: []timeline.NoteEvent{
					{Time: 1.0, Column: 0},
					{Time: 0.5, Column: 1},
				},
				Columns: 4,
			}

			Convey("Then validation fails", func() {
				So(tl.Validate(), ShouldNotBeNil)
			})
		})

		Convey("When a tie breaks column order", func() {
			tl := timeline.Timeline{
				Events: []timeline.NoteEvent{
					{Time: 1.0, Column: 2},
					{Time: 1.0, Column: 0},
				},
				Columns: 4,
			}

			Convey("Then validation fails", func() {
				So(tl.Validate(), ShouldNotBeNil)
			})
		})

		Convey("When a timestamp is not finite", func() {
			tl := timeline.Timeline{
				Events:  []timeline.NoteEvent{{Time: math.NaN(), Column: 0}},
				Columns: 4,
			}

			Convey("Then validation fails", func() {
				So(tl.Validate(), ShouldNotBeNil)
			})
		})

		Convey("When a timestamp exceeds the bound", func() {
			tl := timeline.Timeline{
				Events:  []timeline.NoteEvent{{Time: timeline.MaxSeconds + 1, Column: 0}},
				Columns: 4,
			}

			Convey("Then validation fails", func() {
				So(tl.Validate(), ShouldNotBeNil)
			})
		})

		Convey("When a column is outside the layout", func() {
			tl := timeline.Timeline{
				Events:  []timeline.NoteEvent{{Time: 0, Column: 7}},
				Columns: 4,
			}

			Convey("Then validation fails", func() {
				So(tl.Validate(), ShouldNotBeNil)
			})
		})
	})
}

func TestTimeline_Sort(t *testing.T) {
	Convey("Given unsorted events", t, func() {
		events := []timeline.NoteEvent{
			{Time: 0.4, Column: 1},
			{Time: 0.2, Column: 3},
			{Time: 0.4, Column: 0},
			{Time: 0.0, Column: 2},
		}

		Convey("When sorting", func() {
			timeline.Sort(events)

			Convey("Then events are ordered by time then column", func() {
				So(events[0].Time, ShouldEqual, 0.0)
				So(events[1].Time, ShouldEqual, 0.2)
				So(events[2].Column, ShouldEqual, 0)
				So(events[3].Column, ShouldEqual, 1)
			})
		})
	})
}

func TestTimeline_Duration(t *testing.T) {
	Convey("Given timelines of different lengths", t, func() {
		Convey("When the timeline has many events", func() {
			tl := evenTaps(11, 0.2, 4)

			Convey("Then the duration spans first to last", func() {
				So(tl.Duration(), ShouldAlmostEqual, 2.0, 1e-12)
			})
		})

		Convey("When the timeline has one event", func() {
			tl := timeline.Timeline{
				Events:  []timeline.NoteEvent{{Time: 5.0, Column: 0}},
				Columns: 4,
			}

			Convey("Then the duration is zero", func() {
				So(tl.Duration(), ShouldEqual, 0)
			})
		})
	})
}
