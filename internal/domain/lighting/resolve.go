package lighting

import (
	"context"
	"time"

	"github.com/okian/lightshow/internal/domain/color"
	"github.com/okian/lightshow/internal/domain/model"
	"github.com/okian/lightshow/pkg/logger"
	"github.com/okian/lightshow/pkg/metrics"
)

// HandleLights resolves value for g against the current modifiers and
// issues the resulting primitives.
func (e *Engine) HandleLights(ctx context.Context, g *Group, value int, ev model.Event) {
	if g == nil {
		return
	}
	start := time.Now()
	e.resolve(ctx, g, value, ev, e.mods, e.flags)
	metrics.RecordResolveLatency(float64(time.Since(start).Microseconds()))
}

//nolint:gocyclo,funlen // precedence chain reads top to bottom
func (e *Engine) resolve(ctx context.Context, g *Group, value int, ev model.Event, mods Modifiers, flags Emulation) {
	legacy := flags.LegacyColors

	if legacy && e.codec.IsPacked(value) {
		g.override.setSolid(e.codec.Decode(value))
		metrics.RecordLegacyColor()
		return
	}
	if legacy && e.codec.IsReset(value) {
		g.override.clearSolid()
	}

	if task := g.override.gradient; task != nil && (!legacy || task.Expired(e.currentBeat())) {
		if g.override.dropGradient() {
			metrics.RecordGradientCancelled()
		}
		g.override.clearSolid()
	}

	if legacy && ev.HasGradient() {
		e.startGradient(ctx, g, ev, mods)
	}

	main, inverted := color.White, color.White
	switch {
	case value <= 3:
		main, inverted = e.palette.Blue, e.palette.Red
		if mods.BoostActive {
			main = e.palette.BlueBoost
		}
	case value <= 7:
		main, inverted = e.palette.Red, e.palette.Blue
		if mods.BoostActive {
			main = e.palette.RedBoost
		}
	}

	if legacy && ev.Custom != nil && ev.Custom.Color != nil {
		main, inverted = *ev.Custom.Color, *ev.Custom.Color
		g.override.clearSolid()
		if g.override.dropGradient() {
			metrics.RecordGradientCancelled()
		}
	}

	if solid, ok := g.override.Solid(); ok && legacy {
		main, inverted = solid, solid
		e.renderer.ChangeMultiplierAlpha(g, solid.A, g.Lights)
	}

	if mods.SoloActive && ev.Type != mods.SoloType {
		main, inverted = color.TransparentBlack, color.TransparentBlack
	}

	targets := e.targets(ctx, g, ev, flags)
	normal, inv := split(targets)

	r := e.renderer
	switch value {
	case model.ValueOff:
		r.ChangeAlpha(g, 0, 0, targets)
		metrics.RecordEffect("off")
	case model.ValueBlueOn, model.ValueRedOn:
		r.ChangeColor(g, main.WithAlpha(1), 0, normal)
		r.ChangeColor(g, inverted.WithAlpha(1), 0, inv)
		r.ChangeAlpha(g, 1, 0, normal)
		r.ChangeAlpha(g, 1, 0, inv)
		r.ChangeMultiplierAlpha(g, main.A, normal)
		r.ChangeMultiplierAlpha(g, inverted.A, inv)
		metrics.RecordEffect("on")
	case model.ValueBlueFlash, model.ValueRedFlash:
		r.Flash(g, main, normal)
		r.Flash(g, inverted, inv)
		r.ChangeMultiplierAlpha(g, main.A, normal)
		r.ChangeMultiplierAlpha(g, inverted.A, inv)
		metrics.RecordEffect("flash")
	case model.ValueBlueFade, model.ValueRedFade:
		r.Fade(g, main, normal)
		r.Fade(g, inverted, inv)
		r.ChangeMultiplierAlpha(g, main.A, normal)
		r.ChangeMultiplierAlpha(g, inverted.A, inv)
		metrics.RecordEffect("fade")
	}

	r.SetValue(g, value)
	g.lastValue = value
}

// startGradient replaces any gradient on g and runs the new task's first
// step immediately, so the triggering event already sees its color.
func (e *Engine) startGradient(ctx context.Context, g *Group, ev model.Event, mods Modifiers) {
	task, ok := NewGradientTask(ev)
	if !ok {
		return
	}
	if g.override.dropGradient() {
		metrics.RecordGradientCancelled()
	}
	g.override.gradient = task
	metrics.RecordGradientStarted()
	e.logger.Debug(ctx, "gradient started",
		logger.String("group", g.Name),
		logger.Float64("start", task.Start()),
		logger.Float64("duration", task.Duration()),
		logger.String("easing", task.Easing()))

	if e.clock != nil {
		e.advance(ctx, g, e.clock.CurrentBeat(), mods)
	}
}

// targets narrows the group's lights by light id, then by prop id.
// An id that does not resolve empties the set.
func (e *Engine) targets(ctx context.Context, g *Group, ev model.Event, flags Emulation) []*Light {
	lights := g.Lights
	if !flags.AdvancedTargeting || ev.Custom == nil {
		return lights
	}

	if id := ev.Custom.LightID; id != nil {
		idx := g.lightIndex(*id)
		if idx >= 0 && idx < len(g.Lights) {
			lights = []*Light{g.Lights[idx]}
		} else {
			metrics.RecordInvalidTarget("light")
			e.logger.Warn(ctx, "light id does not exist for event type",
				logger.Int("light_id", *id),
				logger.Int("index", idx),
				logger.Int("type", ev.Type))
			lights = nil
		}
	}

	if id := ev.Custom.PropID; id != nil {
		props := g.Props()
		idx := g.propIndex(*id)
		if idx >= 0 && idx < len(props) {
			lights = props[idx]
		} else {
			metrics.RecordInvalidTarget("prop")
			e.logger.Warn(ctx, "prop id does not exist for event type",
				logger.Int("prop_id", *id),
				logger.Int("index", idx),
				logger.Int("type", ev.Type))
			lights = nil
		}
	}
	return lights
}
