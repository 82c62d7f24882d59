package lighting

import (
	"context"
	"strings"

	"github.com/okian/lightshow/internal/domain/model"
	"github.com/okian/lightshow/pkg/logger"
	"github.com/okian/lightshow/pkg/metrics"
)

// Dispatch routes one event. It never fails: events that address nothing are
// counted and dropped.
func (e *Engine) Dispatch(ctx context.Context, ev model.Event) {
	metrics.RecordEventDispatched(ev.Type)

	if !ev.IsLighting() {
		e.dispatchSpecial(ctx, ev)
		return
	}
	g := e.Group(ev.Type)
	if g == nil {
		metrics.RecordEventIgnored("no_group")
		e.logger.Debug(ctx, "no group for event type",
			logger.Int("type", ev.Type),
			logger.String("value", model.ValueName(ev.Value)))
		return
	}
	e.HandleLights(ctx, g, ev.Value, ev)
}

func (e *Engine) dispatchSpecial(ctx context.Context, ev model.Event) {
	switch ev.Type {
	case model.TypeRingRotation:
		e.rotateRings(ev)
	case model.TypeRingZoom:
		if e.bigRing != nil {
			e.bigRing.HandlePositionEvent()
		}
		if e.smallRing != nil {
			e.smallRing.HandlePositionEvent()
		}
	case model.TypeLeftLaserSpeed:
		e.offsetLasers(ctx, model.TypeLeftLasers, ev)
	case model.TypeRightLaserSpeed:
		e.offsetLasers(ctx, model.TypeRightLasers, ev)
	case model.TypeBoost:
		e.boost(ev.Value == 1)
	default:
		metrics.RecordEventIgnored("no_group")
	}
}

func (e *Engine) rotateRings(ev model.Event) {
	big, small := true, true
	if ev.Custom != nil && ev.Custom.NameFilter != nil {
		filter := *ev.Custom.NameFilter
		switch {
		case strings.Contains(filter, "Big") || strings.Contains(filter, "Large"):
			small = false
		case strings.Contains(filter, "Small"):
			big = false
		}
	}
	if big && e.bigRing != nil {
		e.bigRing.HandleRotationEvent(ev.Custom)
	}
	if small && e.smallRing != nil {
		e.smallRing.HandleRotationEvent(ev.Custom)
	}
}

// offsetLasers feeds every rotating light of the laser group successive
// draws from the beat-seeded generator.
func (e *Engine) offsetLasers(ctx context.Context, laserType int, ev model.Event) {
	g := e.Group(laserType)
	if g == nil {
		metrics.RecordEventIgnored("no_group")
		return
	}
	rng := DeriveRNG(ev.Time)
	for _, l := range g.Rotating {
		angle, clockwise := NextOffset(rng)
		l.UpdateOffset(ev.Value, angle, clockwise, ev.Custom)
	}
	e.logger.Debug(ctx, "laser offsets updated",
		logger.String("group", g.Name),
		logger.Int("speed", ev.Value),
		logger.Int("lasers", len(g.Rotating)))
}

func (e *Engine) boost(active bool) {
	e.mods.BoostActive = active
	red, blue := e.palette.Red, e.palette.Blue
	if active {
		red, blue = e.palette.RedBoost, e.palette.BlueBoost
	}
	for _, g := range e.groups {
		if g != nil {
			e.renderer.Boost(g, red, blue)
		}
	}
	metrics.UpdateBoostActive(active)
}
