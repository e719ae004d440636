package rating_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/seiru/msdcalc/internal/rating"
	"github.com/seiru/msdcalc/internal/skillset"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOverall(t *testing.T) {
	Convey("Given raw skillset values", t, func() {
		values := [skillset.Count]float64{12.0, 9.0, 8.0, 7.5, 2.0, 1.0, 10.0}
		params := rating.DefaultParams()

		Convey("When combining", func() {
			overall := rating.Overall(values, params)

			Convey("Then overall is at least the maximum skillset", func() {
				So(overall, ShouldBeGreaterThanOrEqualTo, 12.0)
			})

			Convey("And the secondary skillsets lift it above the maximum", func() {
				So(overall, ShouldBeGreaterThan, 12.0)
			})
		})

		Convey("When a single skillset carries the chart", func() {
			lone := [skillset.Count]float64{0, 0, 0, 0, 15.0, 0, 0}
			overall := rating.Overall(lone, params)

			Convey("Then overall equals the maximum", func() {
				So(overall, ShouldAlmostEqual, 15.0, 1e-12)
			})
		})

		Convey("When every value is zero", func() {
			overall := rating.Overall([skillset.Count]float64{}, params)

			Convey("Then overall is zero", func() {
				So(overall, ShouldEqual, 0)
			})
		})

		Convey("When raising a secondary skillset", func() {
			raised := values
			raised[skillset.Chordjack] += 3.0

			Convey("Then overall does not decrease", func() {
				So(rating.Overall(raised, params), ShouldBeGreaterThan, rating.Overall(values, params))
			})
		})

		Convey("When building the full score set", func() {
			scores := rating.Combine(values, params)

			Convey("Then the overall invariant holds on the set", func() {
				So(scores.Overall, ShouldBeGreaterThanOrEqualTo, scores.Max())
				So(scores.Finite(), ShouldBeTrue)
			})
		})
	})
}

func TestApplyGoal(t *testing.T) {
	Convey("Given a base full-accuracy score set", t, func() {
		params := rating.DefaultParams()
		base := rating.Combine([skillset.Count]float64{12.0, 9.0, 8.0, 7.5, 2.0, 1.0, 10.0}, params)

		Convey("When the goal is 100", func() {
			got, err := rating.ApplyGoal(base, 100, params)

			Convey("Then the base set is reproduced exactly", func() {
				So(err, ShouldBeNil)
				So(got, ShouldResemble, base)
			})
		})

		Convey("When lowering the goal", func() {
			at93, err93 := rating.ApplyGoal(base, 93, params)
			at80, err80 := rating.ApplyGoal(base, 80, params)
			at50, err50 := rating.ApplyGoal(base, 50, params)

			Convey("Then ratings decrease monotonically", func() {
				So(err93, ShouldBeNil)
				So(err80, ShouldBeNil)
				So(err50, ShouldBeNil)
				So(at93.Overall, ShouldBeLessThan, base.Overall)
				So(at80.Overall, ShouldBeLessThan, at93.Overall)
				So(at50.Overall, ShouldBeLessThan, at80.Overall)
			})

			Convey("And every skillset scales by the same factor", func() {
				factor := at80.Stream / base.Stream
				So(at80.Technical, ShouldAlmostEqual, base.Technical*factor, 1e-9)
				So(at80.Stamina, ShouldAlmostEqual, base.Stamina*factor, 1e-9)
			})

			Convey("And the scaled set keeps the overall invariant", func() {
				So(at50.Overall, ShouldBeGreaterThanOrEqualTo, at50.Max())
				So(at50.Finite(), ShouldBeTrue)
			})
		})

		Convey("When the goal is out of range", func() {
			for _, goal := range []float64{0, -5, 100.01, 150, math.NaN()} {
				_, err := rating.ApplyGoal(base, goal, params)

				Convey(fmt.Sprintf("Then it fails with ErrInvalidGoal for goal %v", goal), func() {
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldContainSubstring, rating.ErrInvalidGoal.Error())
				})
			}
		})
	})
}

func TestRatingParams_Validate(t *testing.T) {
	Convey("Given rating params", t, func() {
		Convey("Then the defaults validate", func() {
			So(rating.DefaultParams().Validate(), ShouldBeNil)
		})

		Convey("When the secondary weight is negative", func() {
			p := rating.DefaultParams()
			p.SecondaryWeight = -0.1

			Convey("Then validation fails", func() {
				So(p.Validate(), ShouldNotBeNil)
			})
		})

		Convey("When the goal exponent is zero", func() {
			p := rating.DefaultParams()
			p.GoalExponent = 0

			Convey("Then validation fails", func() {
				So(p.Validate(), ShouldNotBeNil)
			})
		})
	})
}
