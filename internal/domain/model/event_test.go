package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/okian/lightshow/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestEvent(t *testing.T) {
	convey.Convey("Given an Event struct", t, func() {
		convey.Convey("When the type addresses a light group", func() {
			ev := model.Event{Type: model.TypeRingLights, Value: model.ValueBlueOn, Time: 4}

			convey.Convey("Then it is a lighting event and validates", func() {
				convey.So(ev.IsLighting(), convey.ShouldBeTrue)
				convey.So(ev.Validate(), convey.ShouldBeNil)
				convey.So(ev.HasGradient(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the type addresses a special handler", func() {
			for _, typ := range []int{model.TypeBoost, model.TypeRingRotation, model.TypeRingZoom, model.TypeLeftLaserSpeed, model.TypeRightLaserSpeed} {
				convey.So(model.Event{Type: typ}.IsLighting(), convey.ShouldBeFalse)
			}
		})

		convey.Convey("When the time is not finite", func() {
			err := model.Event{Time: math.NaN()}.Validate()

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, model.ErrInvalidEvent), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the type is negative", func() {
			err := model.Event{Type: -1}.Validate()
			convey.So(errors.Is(err, model.ErrInvalidEvent), convey.ShouldBeTrue)
		})

		convey.Convey("Then value names cover the effect codes", func() {
			convey.So(model.ValueName(model.ValueRedFade), convey.ShouldEqual, "red_fade")
			convey.So(model.ValueName(4), convey.ShouldEqual, "other")
		})
	})
}

func TestDecodeCustomData(t *testing.T) {
	convey.Convey("Given custom data maps", t, func() {
		convey.Convey("When the map is nil", func() {
			cd, err := model.DecodeCustomData(nil)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cd, convey.ShouldBeNil)
		})

		convey.Convey("When targeting keys and a color are present", func() {
			cd, err := model.DecodeCustomData(map[string]any{
				"_nameFilter": "BigTrackLaneRings",
				"_lightID":    float64(3),
				"_propID":     2,
				"_color":      []any{1.0, 0.5, 0.0},
				"_extra":      true,
			})

			convey.Convey("Then each key is decoded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(*cd.NameFilter, convey.ShouldEqual, "BigTrackLaneRings")
				convey.So(*cd.LightID, convey.ShouldEqual, 3)
				convey.So(*cd.PropID, convey.ShouldEqual, 2)
				convey.So(cd.Color.R, convey.ShouldEqual, 1.0)
				convey.So(cd.Color.A, convey.ShouldEqual, 1.0)
				convey.So(cd.Gradient, convey.ShouldBeNil)
			})

			convey.Convey("Then Map keeps unknown keys", func() {
				m := cd.Map()
				convey.So(m["_extra"], convey.ShouldEqual, true)
				convey.So(m["_lightID"], convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When a gradient is present", func() {
			cd, err := model.DecodeCustomData(map[string]any{
				"_lightGradient": map[string]any{
					"_startColor": []any{1.0, 0.0, 0.0, 1.0},
					"_endColor":   "#0000ff",
					"_duration":   2.0,
					"_easing":     "easeInQuad",
				},
			})

			convey.Convey("Then it is decoded with its easing", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cd.Gradient.Duration, convey.ShouldEqual, 2.0)
				convey.So(cd.Gradient.Easing, convey.ShouldEqual, "easeInQuad")
				convey.So(cd.Gradient.End.B, convey.ShouldEqual, 1.0)
			})
		})

		convey.Convey("When a gradient omits its easing", func() {
			cd, err := model.DecodeCustomData(map[string]any{
				"_lightGradient": map[string]any{
					"_startColor": []any{1.0, 0.0, 0.0},
					"_endColor":   []any{0.0, 0.0, 1.0},
					"_duration":   1,
				},
			})

			convey.Convey("Then linear is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cd.Gradient.Easing, convey.ShouldEqual, "easeLinear")
			})
		})

		convey.Convey("When a gradient is malformed", func() {
			_, err := model.DecodeCustomData(map[string]any{
				"_lightGradient": map[string]any{
					"_startColor": []any{1.0, 0.0, 0.0},
					"_endColor":   []any{0.0, 0.0, 1.0},
					"_duration":   0,
				},
			})
			convey.So(errors.Is(err, model.ErrInvalidGradient), convey.ShouldBeTrue)

			_, err = model.DecodeCustomData(map[string]any{
				"_lightGradient": map[string]any{
					"_startColor": []any{1.0, 0.0, 0.0},
					"_endColor":   []any{0.0, 0.0, 1.0},
					"_duration":   1,
					"_easing":     "easeWobble",
				},
			})
			convey.So(errors.Is(err, model.ErrUnknownEasing), convey.ShouldBeTrue)
		})

		convey.Convey("When only one key is malformed", func() {
			cd, err := model.DecodeCustomData(map[string]any{
				"_color":   []any{0.0, 1.0, 0.0},
				"_propID":  1,
				"_lightID": "three",
			})

			convey.Convey("Then the valid keys survive and the error names the bad one", func() {
				convey.So(errors.Is(err, model.ErrInvalidCustomData), convey.ShouldBeTrue)
				convey.So(cd, convey.ShouldNotBeNil)
				convey.So(cd.LightID, convey.ShouldBeNil)
				convey.So(*cd.PropID, convey.ShouldEqual, 1)
				convey.So(cd.Color.Hex(), convey.ShouldEqual, "#00ff00ff")
				convey.So(cd.Raw, convey.ShouldNotContainKey, "_lightID")
			})
		})

		convey.Convey("When a color has the wrong shape", func() {
			_, err := model.DecodeCustomData(map[string]any{"_color": []any{1.0}})
			convey.So(errors.Is(err, model.ErrInvalidColor), convey.ShouldBeTrue)

			_, err = model.DecodeCustomData(map[string]any{"_lightID": "three"})
			convey.So(errors.Is(err, model.ErrInvalidCustomData), convey.ShouldBeTrue)
		})
	})
}
