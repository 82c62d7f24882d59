// Package lighting turns beatmap events into light primitives.
//
// An Engine owns a registry of light groups indexed by event type. Dispatch
// routes every event: ring and laser events go to their collaborators, boost
// swaps the palette pair, and everything else is resolved by HandleLights
// against the group's override layer. Tick advances running gradients from
// the clock's beat. The engine is not safe for concurrent use; a single
// goroutine owns it.
package lighting

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/lightshow/internal/domain/color"
	"github.com/okian/lightshow/pkg/logger"
	"github.com/okian/lightshow/pkg/metrics"
)

// Engine resolves events for a fixed set of groups.
type Engine struct {
	groups   []*Group // indexed by event type, nil where unmapped
	palette  Palette
	mods     Modifiers
	flags    Emulation
	clock    Clock
	renderer Renderer
	codec    Codec

	bigRing   RingHandler
	smallRing RingHandler

	logger logger.Logger
}

// NewEngine builds an engine over groups. Every group needs a distinct,
// non-negative event type.
func NewEngine(groups []*Group, opts ...Option) (*Engine, error) {
	e := &Engine{
		palette:  DefaultPalette(),
		flags:    Emulation{LegacyColors: true, AdvancedTargeting: true},
		renderer: NopRenderer{},
		codec:    color.LegacyCodec{},
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	for _, g := range groups {
		if g == nil {
			continue
		}
		if g.Type < 0 {
			return nil, fmt.Errorf("%w: %s has type %d", ErrInvalidGroupType, g.Name, g.Type)
		}
		for len(e.groups) <= g.Type {
			e.groups = append(e.groups, nil)
		}
		if e.groups[g.Type] != nil {
			return nil, fmt.Errorf("%w: %s and %s use type %d", ErrDuplicateGroupType, e.groups[g.Type].Name, g.Name, g.Type)
		}
		e.groups[g.Type] = g
	}
	return e, nil
}

// Group returns the group registered for eventType, or nil.
func (e *Engine) Group(eventType int) *Group {
	if eventType < 0 || eventType >= len(e.groups) {
		return nil
	}
	return e.groups[eventType]
}

// Groups returns the registered groups ordered by event type.
func (e *Engine) Groups() []*Group {
	out := make([]*Group, 0, len(e.groups))
	for _, g := range e.groups {
		if g != nil {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Palette returns the active palette.
func (e *Engine) Palette() Palette { return e.palette }

// SetPalette replaces the palette used by subsequent events.
func (e *Engine) SetPalette(p Palette) { e.palette = p }

// Modifiers returns a copy of the current solo and boost state.
func (e *Engine) Modifiers() Modifiers { return e.mods }

// Emulation returns the active emulation flags.
func (e *Engine) Emulation() Emulation { return e.flags }

// SetEmulation replaces the emulation flags.
func (e *Engine) SetEmulation(flags Emulation) { e.flags = flags }

// SetSolo restricts visible output to one event type while active.
func (e *Engine) SetSolo(active bool, eventType int) {
	e.mods.SoloActive = active
	e.mods.SoloType = eventType
	metrics.UpdateSoloActive(active)
}

// KillAllOverrides cancels every gradient and forgets every solid color.
// Groups that had a gradient get their intensity multiplier reset.
func (e *Engine) KillAllOverrides(ctx context.Context) {
	for _, g := range e.groups {
		if g == nil {
			continue
		}
		if g.override.gradient != nil {
			if g.override.dropGradient() {
				metrics.RecordGradientCancelled()
			}
			e.renderer.ChangeMultiplierAlpha(g, 1, g.Lights)
		}
		g.override.clearSolid()
	}
	metrics.UpdateGradientsActive(0)
	e.logger.Debug(ctx, "overrides cleared")
}

// KillLights fades every light to zero alpha.
func (e *Engine) KillLights(ctx context.Context) {
	for _, g := range e.groups {
		if g == nil {
			continue
		}
		e.renderer.ChangeAlpha(g, 0, 1, g.Lights)
	}
	e.logger.Debug(ctx, "lights killed")
}

// Refresh repaints every light with its base palette color at zero alpha.
func (e *Engine) Refresh(ctx context.Context) {
	for _, g := range e.groups {
		if g == nil {
			continue
		}
		normal, inverted := split(g.Lights)
		e.renderer.ChangeColor(g, e.palette.Blue, 0, normal)
		e.renderer.ChangeColor(g, e.palette.Red, 0, inverted)
		e.renderer.ChangeAlpha(g, 0, 0, g.Lights)
	}
	e.logger.Debug(ctx, "lights refreshed")
}

// Tick advances every running gradient to the clock's current beat.
// It returns the number of gradients still running.
func (e *Engine) Tick(ctx context.Context) int {
	if e.clock == nil {
		return 0
	}
	beat := e.clock.CurrentBeat()
	mods := e.mods

	running := 0
	for _, g := range e.groups {
		if g == nil || g.override.gradient == nil {
			continue
		}
		if e.advance(ctx, g, beat, mods) == TaskRunning {
			running++
		}
	}
	metrics.UpdateGradientsActive(running)
	return running
}

// advance steps g's gradient once and applies the result.
func (e *Engine) advance(ctx context.Context, g *Group, beat float64, mods Modifiers) TaskState {
	task := g.override.gradient
	step := task.Advance(beat, mods)
	if step.Push {
		g.override.setSolid(step.Color)
		e.renderer.ChangeColor(g, step.Color.WithAlpha(1), 0, g.Lights)
		e.renderer.ChangeMultiplierAlpha(g, step.Color.A, g.Lights)
	}
	if step.State == TaskCompleted && step.Push {
		metrics.RecordGradientCompleted()
		e.logger.Debug(ctx, "gradient completed",
			logger.String("group", g.Name),
			logger.Float64("beat", beat))
	}
	return step.State
}

func (e *Engine) currentBeat() float64 {
	if e.clock == nil {
		return 0
	}
	return e.clock.CurrentBeat()
}
