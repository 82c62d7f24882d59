package lighting_test

import (
	"context"
	"testing"

	"github.com/okian/lightshow/internal/domain/color"
	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGradientTask(t *testing.T) {
	red := color.RGBA(1, 0, 0, 1)
	blue := color.RGBA(0, 0, 1, 0.5)

	Convey("Given a linear gradient over four beats", t, func() {
		task, ok := lighting.NewGradientTask(gradientEvent(model.TypeRingLights, 10, 4, red, blue, "easeLinear"))
		So(ok, ShouldBeTrue)

		Convey("When advanced to the midpoint", func() {
			step := task.Advance(12, lighting.Modifiers{})

			Convey("Then it pushes the interpolated color and keeps running", func() {
				So(step.State, ShouldEqual, lighting.TaskRunning)
				So(step.Push, ShouldBeTrue)
				So(step.Color.R, ShouldAlmostEqual, 0.5)
				So(step.Color.B, ShouldAlmostEqual, 0.5)
				So(step.Color.A, ShouldAlmostEqual, 0.75)
			})
		})

		Convey("When advanced past the end", func() {
			step := task.Advance(20, lighting.Modifiers{})

			Convey("Then it completes on the end color", func() {
				So(step.State, ShouldEqual, lighting.TaskCompleted)
				So(step.Color, ShouldResemble, blue)
				So(step.Push, ShouldBeTrue)
				So(task.State(), ShouldEqual, lighting.TaskCompleted)
			})

			Convey("Then further advances are inert", func() {
				again := task.Advance(21, lighting.Modifiers{})
				So(again.Push, ShouldBeFalse)
				So(task.Cancel(), ShouldBeFalse)
			})
		})

		Convey("When another type is soloed", func() {
			solo := lighting.Modifiers{SoloActive: true, SoloType: model.TypeCenterLights}

			Convey("Then intermediate steps are withheld", func() {
				So(task.Advance(11, solo).Push, ShouldBeFalse)
			})

			Convey("Then completion is still pushed", func() {
				So(task.Advance(14, solo).Push, ShouldBeTrue)
			})
		})

		Convey("When its own type is soloed", func() {
			solo := lighting.Modifiers{SoloActive: true, SoloType: model.TypeRingLights}
			So(task.Advance(11, solo).Push, ShouldBeTrue)
		})

		Convey("When cancelled", func() {
			So(task.Cancel(), ShouldBeTrue)

			Convey("Then it never pushes again", func() {
				step := task.Advance(12, lighting.Modifiers{})
				So(step.Push, ShouldBeFalse)
				So(step.State, ShouldEqual, lighting.TaskCancelled)
			})
		})

		Convey("Then expiry is inclusive of the end beat", func() {
			So(task.Expired(13.99), ShouldBeFalse)
			So(task.Expired(14), ShouldBeTrue)
			So(task.Progress(11), ShouldAlmostEqual, 0.25)
		})
	})

	Convey("Given an event without a gradient", t, func() {
		_, ok := lighting.NewGradientTask(model.Event{Type: 1})
		So(ok, ShouldBeFalse)
	})

	Convey("Given an easing that overshoots", t, func() {
		task, _ := lighting.NewGradientTask(gradientEvent(1, 0, 1, red, blue, "easeInBack"))

		Convey("Then interpolation is not clamped", func() {
			step := task.Advance(0.2, lighting.Modifiers{})
			So(step.Color.R, ShouldBeGreaterThan, 1.0)
		})
	})

	Convey("Given the task states", t, func() {
		So(lighting.TaskRunning.String(), ShouldEqual, "running")
		So(lighting.TaskCompleted.String(), ShouldEqual, "completed")
		So(lighting.TaskCancelled.String(), ShouldEqual, "cancelled")
	})
}

func TestEngineGradients(t *testing.T) {
	red := color.RGBA(1, 0, 0, 1)
	blue := color.RGBA(0, 0, 1, 1)

	Convey("Given an engine at beat 10", t, func() {
		f := newFixture()
		f.clk.beat = 10

		Convey("When a gradient event arrives", func() {
			f.eng.Dispatch(f.ctx, gradientEvent(model.TypeRingLights, 10, 4, red, blue, "easeLinear"))

			Convey("Then the event itself renders the start color", func() {
				solid, ok := f.ring.Solid()
				So(ok, ShouldBeTrue)
				So(solid, ShouldResemble, red)
				c, _ := f.rec.colorFor("color", 0)
				So(c, ShouldResemble, red)
				c, _ = f.rec.colorFor("color", 4)
				So(c, ShouldResemble, red)
			})

			Convey("Then ticks follow the clock", func() {
				f.clk.beat = 12
				So(f.eng.Tick(f.ctx), ShouldEqual, 1)
				solid, _ := f.ring.Solid()
				So(solid.R, ShouldAlmostEqual, 0.5)
				So(solid.B, ShouldAlmostEqual, 0.5)

				f.clk.beat = 14
				So(f.eng.Tick(f.ctx), ShouldEqual, 0)
				solid, _ = f.ring.Solid()
				So(solid, ShouldResemble, blue)

				Convey("And the finished task stays until the next event clears it", func() {
					So(f.ring.Gradient(), ShouldNotBeNil)
					So(f.ring.Gradient().State(), ShouldEqual, lighting.TaskCompleted)

					f.rec.reset()
					f.eng.Dispatch(f.ctx, model.Event{Type: model.TypeRingLights, Value: model.ValueBlueOn, Time: 14})
					So(f.ring.Gradient(), ShouldBeNil)
					_, ok := f.ring.Solid()
					So(ok, ShouldBeFalse)
					c, _ := f.rec.colorFor("color", 0)
					So(c, ShouldResemble, f.pal.Blue.WithAlpha(1))
				})
			})

			Convey("Then each tick pushes color to every light", func() {
				f.rec.reset()
				f.clk.beat = 11
				f.eng.Tick(f.ctx)
				colors := f.rec.ops("color")
				So(colors, ShouldHaveLength, 1)
				So(colors[0].Targets, ShouldResemble, []int{0, 1, 2, 3, 4})
				So(colors[0].Color.A, ShouldEqual, 1.0)
			})

			Convey("Then an event before expiry keeps the gradient color", func() {
				f.clk.beat = 13
				f.rec.reset()
				f.eng.Dispatch(f.ctx, model.Event{Type: model.TypeRingLights, Value: model.ValueRedFlash, Time: 13})
				So(f.ring.Gradient().State(), ShouldEqual, lighting.TaskRunning)
				c, _ := f.rec.colorFor("flash", 0)
				So(c, ShouldResemble, red)
			})
		})

		Convey("When a second gradient supersedes the first", func() {
			f.eng.Dispatch(f.ctx, gradientEvent(model.TypeRingLights, 10, 8, red, blue, "easeLinear"))
			first := f.ring.Gradient()

			f.clk.beat = 11
			green := color.RGBA(0, 1, 0, 1)
			f.eng.Dispatch(f.ctx, gradientEvent(model.TypeRingLights, 11, 2, green, blue, "easeOutQuad"))
			second := f.ring.Gradient()

			Convey("Then the first is cancelled before the second runs", func() {
				So(first.State(), ShouldEqual, lighting.TaskCancelled)
				So(second, ShouldNotEqual, first)
				So(second.State(), ShouldEqual, lighting.TaskRunning)
				solid, _ := f.ring.Solid()
				So(solid, ShouldResemble, green)
			})
		})

		Convey("When an explicit color arrives during a gradient", func() {
			f.eng.Dispatch(f.ctx, gradientEvent(model.TypeRingLights, 10, 8, red, blue, "easeLinear"))
			task := f.ring.Gradient()
			white := color.RGBA(1, 1, 1, 1)
			f.eng.Dispatch(f.ctx, model.Event{Type: model.TypeRingLights, Value: model.ValueBlueOn, Time: 10, Custom: &model.CustomData{Color: &white}})

			Convey("Then the gradient is cancelled and nothing reinstates it", func() {
				So(task.State(), ShouldEqual, lighting.TaskCancelled)
				So(f.ring.Gradient(), ShouldBeNil)
				f.clk.beat = 12
				So(f.eng.Tick(f.ctx), ShouldEqual, 0)
				_, ok := f.ring.Solid()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the same event carries both a gradient and a color", func() {
			ev := gradientEvent(model.TypeRingLights, 10, 8, red, blue, "easeLinear")
			white := color.RGBA(1, 1, 1, 1)
			ev.Custom.Color = &white
			f.eng.Dispatch(f.ctx, ev)

			Convey("Then the explicit color wins within the call", func() {
				So(f.ring.Gradient(), ShouldBeNil)
				_, ok := f.ring.Solid()
				So(ok, ShouldBeFalse)
				c, _ := f.rec.colorFor("color", 0)
				So(c, ShouldResemble, white)
			})
		})

		Convey("When solo hides the gradient's type", func() {
			f.eng.Dispatch(f.ctx, gradientEvent(model.TypeRingLights, 10, 4, red, blue, "easeLinear"))
			f.eng.SetSolo(true, model.TypeCenterLights)
			f.rec.reset()

			f.clk.beat = 12
			f.eng.Tick(f.ctx)

			Convey("Then intermediate colors are neither stored nor pushed", func() {
				So(f.rec.ops("color"), ShouldBeEmpty)
				solid, _ := f.ring.Solid()
				So(solid, ShouldResemble, red)
			})

			Convey("Then the end color still lands", func() {
				f.clk.beat = 15
				f.eng.Tick(f.ctx)
				solid, _ := f.ring.Solid()
				So(solid, ShouldResemble, blue)
			})
		})
	})

	Convey("Given any easing", t, func() {
		for _, name := range []string{"easeLinear", "easeStep", "easeInBack", "easeOutElastic", "easeInOutBounce", "easeInCirc"} {
			f := newFixture()
			f.eng.Dispatch(f.ctx, gradientEvent(model.TypeRingLights, 0, 2, red, blue, name))
			f.clk.beat = 1.3
			f.eng.Tick(f.ctx)
			f.clk.beat = 2.5
			f.eng.Tick(f.ctx)

			solid, ok := f.ring.Solid()
			So(ok, ShouldBeTrue)
			So(solid, ShouldResemble, blue)
		}
	})

	Convey("Given an engine without a clock", t, func() {
		rec := &recorder{}
		g := ringGroup()
		eng, err := lighting.NewEngine([]*lighting.Group{g}, lighting.WithRenderer(rec))
		So(err, ShouldBeNil)

		Convey("Then ticks do nothing", func() {
			ctx := context.Background()
			eng.Dispatch(ctx, gradientEvent(model.TypeRingLights, 0, 2, red, blue, "easeLinear"))
			So(g.Gradient(), ShouldNotBeNil)
			So(eng.Tick(ctx), ShouldEqual, 0)
		})
	})
}
