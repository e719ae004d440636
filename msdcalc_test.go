package msdcalc_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seiru/msdcalc"
	. "github.com/smartystreets/goconvey/convey"
)

// streamText renders a 4-column rotating stream with the given spacing
// as noterows text.
func streamText(n int, dt float64) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%.4f %d\n", float64(i)*dt, 1<<(i%4))
	}
	return b.String()
}

func TestFacadeParsing(t *testing.T) {
	Convey("Given raw chart text", t, func() {
		text := streamText(200, 0.2)

		Convey("When parsing with detection", func() {
			tl, err := msdcalc.Parse([]byte(text))

			Convey("Then a valid timeline comes back", func() {
				So(err, ShouldBeNil)
				So(tl.Len(), ShouldEqual, 200)
				So(tl.Columns, ShouldEqual, 4)
				So(msdcalc.Detect([]byte(text)), ShouldEqual, msdcalc.FormatNoteRows)
			})
		})

		Convey("When parsing twice", func() {
			first, err1 := msdcalc.Parse([]byte(text))
			second, err2 := msdcalc.Parse([]byte(text))

			Convey("Then the timelines are structurally equal", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})

		Convey("When the format hint is explicit", func() {
			tl, err := msdcalc.ParseFormat([]byte(text), msdcalc.FormatNoteRows)

			Convey("Then parsing succeeds without detection", func() {
				So(err, ShouldBeNil)
				So(tl.Len(), ShouldEqual, 200)
			})
		})

		Convey("When the input matches no format", func() {
			_, err := msdcalc.Parse([]byte("definitely not a chart"))

			Convey("Then the re-exported sentinel matches", func() {
				So(errors.Is(err, msdcalc.ErrUnsupportedFormat), ShouldBeTrue)
			})
		})

		Convey("When an event line is malformed", func() {
			_, err := msdcalc.ParseFormat([]byte("abc 1\n"), msdcalc.FormatNoteRows)

			Convey("Then it fails with a malformed event", func() {
				So(errors.Is(err, msdcalc.ErrMalformedEvent), ShouldBeTrue)
			})
		})
	})
}

func TestFacadeRatings(t *testing.T) {
	Convey("Given a parsed stream chart", t, func() {
		tl, err := msdcalc.Parse([]byte(streamText(400, 0.2)))
		So(err, ShouldBeNil)

		Convey("When rating at rate 1.0 with goal 100", func() {
			res, err := msdcalc.SSR(tl, 1.0, 100)
			base, baseErr := msdcalc.MSDAt(tl, 1.0)

			Convey("Then the full-accuracy rating is the fixed point", func() {
				So(err, ShouldBeNil)
				So(baseErr, ShouldBeNil)
				So(res.Scores, ShouldResemble, base)
			})

			Convey("And the stream skillset dominates", func() {
				So(err, ShouldBeNil)
				So(res.Scores.Dominant(), ShouldEqual, msdcalc.Stream)
				So(res.Scores.Overall, ShouldBeGreaterThanOrEqualTo, res.Scores.Max())
				So(res.Scores.JackSpeed, ShouldAlmostEqual, 0, 1e-9)
				So(res.Scores.Chordjack, ShouldAlmostEqual, 0, 1e-9)
			})
		})

		Convey("When lowering the goal", func() {
			at100, err100 := msdcalc.SSR(tl, 1.0, 100)
			at90, err90 := msdcalc.SSR(tl, 1.0, 90)

			Convey("Then the rating drops monotonically", func() {
				So(err100, ShouldBeNil)
				So(err90, ShouldBeNil)
				So(at90.Scores.Overall, ShouldBeLessThan, at100.Scores.Overall)
			})
		})

		Convey("When the rate or goal is invalid", func() {
			_, rateErr := msdcalc.SSR(tl, -1, 95)
			_, goalErr := msdcalc.SSR(tl, 1.0, 0)

			Convey("Then the re-exported sentinels match", func() {
				So(errors.Is(rateErr, msdcalc.ErrInvalidRate), ShouldBeTrue)
				So(errors.Is(goalErr, msdcalc.ErrInvalidGoal), ShouldBeTrue)
			})
		})

		Convey("When sweeping the full table", func() {
			table, err := msdcalc.MSD(tl)

			Convey("Then one valid entry exists per canonical rate", func() {
				So(err, ShouldBeNil)
				So(table.Len(), ShouldEqual, len(msdcalc.DefaultRates()))
				for _, e := range table.Entries {
					So(e.Scores.Finite(), ShouldBeTrue)
				}
			})
		})
	})
}

func TestFacadeFileHelpers(t *testing.T) {
	Convey("Given a chart file on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "stream.rows")
		So(os.WriteFile(path, []byte(streamText(300, 0.2)), 0o644), ShouldBeNil)

		Convey("When rating from the file", func() {
			fromFile, err := msdcalc.SSRFromFile(path, 1.0, 93.0)

			Convey("Then it matches the string path", func() {
				So(err, ShouldBeNil)
				fromString, strErr := msdcalc.SSRFromString(streamText(300, 0.2), msdcalc.FormatUnknown, 1.0, 93.0)
				So(strErr, ShouldBeNil)
				So(fromFile, ShouldResemble, fromString)
			})
		})

		Convey("When sweeping from the file", func() {
			table, err := msdcalc.MSDFromFile(path)

			Convey("Then the full grid comes back", func() {
				So(err, ShouldBeNil)
				So(table.Len(), ShouldEqual, 31)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := msdcalc.SSRFromFile(filepath.Join(dir, "missing.rows"), 1.0, 93.0)

			Convey("Then the read error surfaces", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestFacadeEngineReuse(t *testing.T) {
	Convey("Given a custom engine", t, func() {
		engine, err := msdcalc.NewEngine(
			msdcalc.WithRates([]float64{0.8, 1.0, 1.2}),
			msdcalc.WithWorkers(2),
		)
		So(err, ShouldBeNil)

		tl, parseErr := msdcalc.Parse([]byte(streamText(300, 0.2)))
		So(parseErr, ShouldBeNil)

		Convey("When sweeping with it", func() {
			table, err := engine.MSD(tl)

			Convey("Then the custom grid is honored", func() {
				So(err, ShouldBeNil)
				So(table.Rates(), ShouldResemble, []float64{0.8, 1.0, 1.2})
			})
		})

		Convey("When tuning params through the facade aliases", func() {
			params := msdcalc.DefaultAnalysisParams()
			params.WindowSeconds = 3.0
			tuned, err := msdcalc.NewEngine(msdcalc.WithAnalysisParams(params))

			Convey("Then the engine accepts them", func() {
				So(err, ShouldBeNil)
				So(tuned.Fingerprint(), ShouldNotEqual, engine.Fingerprint())
			})
		})
	})
}
