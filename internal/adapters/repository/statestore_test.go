package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/lightshow/internal/adapters/repository"
	"github.com/okian/lightshow/internal/domain/color"
	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type captureListener struct {
	mu      sync.Mutex
	batches [][]repository.LightState
}

func (c *captureListener) OnChange(states []repository.LightState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, states)
}

func newGroup() *lighting.Group {
	return lighting.NewGroup("ring", model.TypeRingLights,
		[]*lighting.Light{{}, {}, {Inverted: true}})
}

func TestStateStore(t *testing.T) {
	Convey("Given a seeded state store", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		at := time.Unix(1_700_000_000, 0)
		listener := &captureListener{}
		s := repository.NewStateStore(ctx,
			repository.WithSnapshotInterval(time.Hour),
			repository.WithListener(listener),
			repository.WithNowFunc(func() time.Time { return at }))
		defer s.Close()

		g := newGroup()
		s.Seed([]*lighting.Group{g})

		Convey("Every light starts dark at full multiplier", func() {
			lights, err := s.Lights(ctx, "ring")
			So(err, ShouldBeNil)
			So(lights, ShouldHaveLength, 3)
			So(lights[2].Inverted, ShouldBeTrue)
			So(lights[0].Multiplier, ShouldEqual, 1)
			So(lights[0].Alpha, ShouldEqual, 0)
			So(s.Count(ctx), ShouldEqual, 3)
		})

		Convey("Unknown groups are reported", func() {
			_, err := s.Lights(ctx, "nope")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When primitives are applied to part of the group", func() {
			red := color.RGBA(1, 0, 0, 1)
			s.ChangeColor(g, red, 0, g.Lights[:2])
			s.ChangeAlpha(g, 1, 0, g.Lights[:2])
			s.ChangeMultiplierAlpha(g, 0.5, g.Lights[:1])
			s.SetValue(g, model.ValueRedOn)

			Convey("Then only the targets change", func() {
				lights, _ := s.Lights(ctx, "ring")
				So(lights[0].Color, ShouldResemble, red)
				So(lights[0].Effect, ShouldEqual, "multiplier")
				So(lights[1].Effect, ShouldEqual, "alpha")
				So(lights[2].Color, ShouldResemble, color.Black)
				So(lights[2].Value, ShouldEqual, model.ValueRedOn)
				So(lights[0].UpdatedAt.Equal(at), ShouldBeTrue)
			})

			Convey("Then the output folds alpha and multiplier", func() {
				lights, _ := s.Lights(ctx, "ring")
				So(lights[0].Output().A, ShouldAlmostEqual, 0.5)
				So(lights[1].Output().A, ShouldAlmostEqual, 1)
				So(lights[2].Output().A, ShouldAlmostEqual, 0)
			})

			Convey("Then listeners see each batch", func() {
				So(listener.batches, ShouldHaveLength, 4)
				So(listener.batches[2], ShouldHaveLength, 1)
				So(listener.batches[3], ShouldHaveLength, 3)
			})
		})

		Convey("When a flash and a fade are applied", func() {
			blue := color.RGBA(0, 0, 1, 1)
			s.Flash(g, blue, g.Lights[:1])
			s.Fade(g, blue, g.Lights[1:2])

			lights, _ := s.Lights(ctx, "ring")
			So(lights[0].Effect, ShouldEqual, "flash")
			So(lights[0].Alpha, ShouldEqual, 1)
			So(lights[1].Effect, ShouldEqual, "fade")
		})

		Convey("When a translucent color is shown on, flashed and faded", func() {
			half := color.RGBA(1, 0, 0, 0.5)
			on, flash, fade := g.Lights[:1], g.Lights[1:2], g.Lights[2:]

			s.ChangeColor(g, half.WithAlpha(1), 0, on)
			s.ChangeAlpha(g, 1, 0, on)
			s.ChangeMultiplierAlpha(g, half.A, on)

			s.Flash(g, half, flash)
			s.ChangeMultiplierAlpha(g, half.A, flash)

			s.Fade(g, half, fade)
			s.ChangeMultiplierAlpha(g, half.A, fade)

			Convey("Then every effect outputs the same alpha", func() {
				lights, _ := s.Lights(ctx, "ring")
				So(lights[0].Output().A, ShouldAlmostEqual, 0.5)
				So(lights[1].Output().A, ShouldAlmostEqual, 0.5)
				So(lights[2].Output().A, ShouldAlmostEqual, 0.5)
				So(lights[1].Color.A, ShouldEqual, 1)
				So(lights[2].Output().Hex(), ShouldEqual, lights[0].Output().Hex())
			})
		})

		Convey("An empty target set notifies nobody", func() {
			s.ChangeAlpha(g, 1, 0, nil)
			So(listener.batches, ShouldBeEmpty)
		})

		Convey("Snapshots are copies published on demand", func() {
			p := lighting.DefaultPalette()
			s.Boost(g, p.RedBoost, p.BlueBoost)

			before := s.Snapshot(ctx)
			So(before.Groups["ring"], ShouldHaveLength, 3)
			So(before.Red, ShouldResemble, p.Red)

			s.Seed(nil)
			after := s.Snapshot(ctx)
			So(after.Red, ShouldResemble, p.RedBoost)
			So(after.Blue, ShouldResemble, p.BlueBoost)
		})
	})
}
