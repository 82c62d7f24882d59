// Package rig describes the physical light layout and builds the engine's
// groups and collaborators from it.
package rig

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/internal/domain/model"
)

// Layout is the YAML form of a rig.
type Layout struct {
	Groups []GroupSpec `yaml:"groups"`
	Rings  RingsSpec   `yaml:"rings"`
}

// GroupSpec describes one light group. When Lights is empty, Count lights
// are created with one prop cluster each.
type GroupSpec struct {
	Name     string      `yaml:"name"`
	Type     int         `yaml:"type"`
	Count    int         `yaml:"count"`
	Lights   []LightSpec `yaml:"lights"`
	LightIDs []int       `yaml:"light_ids"`
	PropIDs  []int       `yaml:"prop_ids"`
	Rotating int         `yaml:"rotating"`
}

// LightSpec describes one light.
type LightSpec struct {
	Inverted bool `yaml:"inverted"`
	Prop     int  `yaml:"prop"`
}

// RingsSpec describes the two ring systems.
type RingsSpec struct {
	Big   RingSpec `yaml:"big"`
	Small RingSpec `yaml:"small"`
}

// RingSpec describes one ring system.
type RingSpec struct {
	Enabled bool    `yaml:"enabled"`
	Step    float64 `yaml:"step"` // degrees per rotation event
}

// Rig is a built layout.
type Rig struct {
	Groups []*lighting.Group
	Lasers []*Laser
	Big    *Ring
	Small  *Ring
}

// LoadFile reads a YAML layout.
func LoadFile(path string) (Layout, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return Layout{}, fmt.Errorf("opening rig: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML layout.
func Load(r io.Reader) (Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("%w: %w", ErrInvalidRig, err)
	}
	return l, nil
}

// Default is a stage with every lighting event type populated.
func Default() Layout {
	return Layout{
		Groups: []GroupSpec{
			{Name: "back_lasers", Type: model.TypeBackLasers, Count: 10},
			{Name: "ring_lights", Type: model.TypeRingLights, Lights: ringLights(4, 4)},
			{Name: "left_lasers", Type: model.TypeLeftLasers, Count: 4, Rotating: 4},
			{Name: "right_lasers", Type: model.TypeRightLasers, Count: 4, Rotating: 4},
			{Name: "center_lights", Type: model.TypeCenterLights, Lights: []LightSpec{
				{Prop: 0}, {Prop: 0}, {Prop: 1, Inverted: true}, {Prop: 1, Inverted: true}, {Prop: 2}, {Prop: 2},
			}},
		},
		Rings: RingsSpec{
			Big:   RingSpec{Enabled: true, Step: 15},
			Small: RingSpec{Enabled: true, Step: 30},
		},
	}
}

func ringLights(rings, perRing int) []LightSpec {
	out := make([]LightSpec, 0, rings*perRing)
	for r := 0; r < rings; r++ {
		for i := 0; i < perRing; i++ {
			out = append(out, LightSpec{Prop: r, Inverted: i%2 == 1})
		}
	}
	return out
}

// Build validates l and constructs its groups and collaborators.
func Build(l Layout) (*Rig, error) {
	rg := &Rig{}
	names := make(map[string]bool, len(l.Groups))
	for _, gs := range l.Groups {
		if gs.Name == "" {
			return nil, fmt.Errorf("%w: group with type %d has no name", ErrInvalidRig, gs.Type)
		}
		if names[gs.Name] {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrInvalidRig, gs.Name)
		}
		names[gs.Name] = true

		specs := gs.Lights
		if len(specs) == 0 {
			if gs.Count <= 0 {
				return nil, fmt.Errorf("%w: group %q has no lights", ErrInvalidRig, gs.Name)
			}
			specs = make([]LightSpec, gs.Count)
			for i := range specs {
				specs[i].Prop = i
			}
		}
		if len(gs.LightIDs) > 0 && len(gs.LightIDs) != len(specs) {
			return nil, fmt.Errorf("%w: group %q maps %d light ids for %d lights", ErrInvalidRig, gs.Name, len(gs.LightIDs), len(specs))
		}

		lights := make([]*lighting.Light, len(specs))
		for i, s := range specs {
			lights[i] = &lighting.Light{Inverted: s.Inverted, Prop: s.Prop}
		}

		var opts []lighting.GroupOption
		if len(gs.LightIDs) > 0 {
			opts = append(opts, lighting.WithLightIDMap(gs.LightIDs))
		}
		if len(gs.PropIDs) > 0 {
			opts = append(opts, lighting.WithPropIDMap(gs.PropIDs))
		}
		if gs.Rotating > 0 {
			lasers := make([]lighting.RotatingLight, gs.Rotating)
			for i := range lasers {
				laser := &Laser{Group: gs.Name, Index: i}
				rg.Lasers = append(rg.Lasers, laser)
				lasers[i] = laser
			}
			opts = append(opts, lighting.WithRotatingLights(lasers...))
		}

		g := lighting.NewGroup(gs.Name, gs.Type, lights, opts...)
		if len(gs.PropIDs) > 0 && len(gs.PropIDs) != len(g.Props()) {
			return nil, fmt.Errorf("%w: group %q maps %d prop ids for %d props", ErrInvalidRig, gs.Name, len(gs.PropIDs), len(g.Props()))
		}
		rg.Groups = append(rg.Groups, g)
	}

	if l.Rings.Big.Enabled {
		rg.Big = NewRing("big", l.Rings.Big.Step)
	}
	if l.Rings.Small.Enabled {
		rg.Small = NewRing("small", l.Rings.Small.Step)
	}
	return rg, nil
}

// EngineOptions returns the options that attach the rig's rings.
func (r *Rig) EngineOptions() []lighting.Option {
	var big, small lighting.RingHandler
	if r.Big != nil {
		big = r.Big
	}
	if r.Small != nil {
		small = r.Small
	}
	return []lighting.Option{lighting.WithRings(big, small)}
}
