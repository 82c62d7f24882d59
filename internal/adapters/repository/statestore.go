package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/lightshow/internal/domain/color"
	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/pkg/metrics"
)

const defaultSnapshotInterval = 250 * time.Millisecond

// StateStore is a lighting.Renderer that remembers what it was told to show.
// Writes come from the player goroutine; reads may come from anywhere.
type StateStore struct {
	mu        sync.RWMutex
	groups    map[string][]LightState
	red, blue color.Color

	listeners        []Listener
	now              func() time.Time
	snapshotInterval time.Duration
	snapshot         atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

var (
	_ Store             = (*StateStore)(nil)
	_ lighting.Renderer = (*StateStore)(nil)
)

// NewStateStore constructs a store and starts publishing snapshots.
func NewStateStore(ctx context.Context, opts ...Option) *StateStore {
	s := &StateStore{
		groups:           make(map[string][]LightState),
		red:              lighting.DefaultPalette().Red,
		blue:             lighting.DefaultPalette().Blue,
		now:              time.Now,
		snapshotInterval: defaultSnapshotInterval,
		stopChan:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.publishSnapshot()
	s.startPeriodicSnapshots(ctx)
	return s
}

// Seed registers every light of groups in the dark.
func (s *StateStore) Seed(groups []*lighting.Group) {
	s.mu.Lock()
	for _, g := range groups {
		s.ensureLocked(g)
	}
	s.mu.Unlock()
	s.publishSnapshot()
}

func (s *StateStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

func (s *StateStore) publishSnapshot() {
	s.mu.RLock()
	snap := &Snapshot{
		Groups: make(map[string][]LightState, len(s.groups)),
		Red:    s.red,
		Blue:   s.blue,
		Taken:  s.now(),
	}
	for name, lights := range s.groups {
		snap.Groups[name] = append([]LightState(nil), lights...)
	}
	s.mu.RUnlock()
	s.snapshot.Store(snap)
}

// Close stops the snapshot goroutine.
func (s *StateStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Lights implements Store.Lights against live state.
func (s *StateStore) Lights(_ context.Context, group string) ([]LightState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lights, ok := s.groups[group]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]LightState(nil), lights...), nil
}

// Snapshot implements Store.Snapshot.
func (s *StateStore) Snapshot(context.Context) Snapshot {
	return *s.snapshot.Load()
}

// Count implements Store.Count.
func (s *StateStore) Count(context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, lights := range s.groups {
		n += len(lights)
	}
	return n
}

func (s *StateStore) ChangeColor(g *lighting.Group, c color.Color, _ float64, targets []*lighting.Light) {
	s.apply(g, targets, "color", func(ls *LightState) { ls.Color = c })
}

func (s *StateStore) ChangeAlpha(g *lighting.Group, alpha, _ float64, targets []*lighting.Light) {
	s.apply(g, targets, "alpha", func(ls *LightState) { ls.Alpha = alpha })
}

func (s *StateStore) ChangeMultiplierAlpha(g *lighting.Group, factor float64, targets []*lighting.Light) {
	s.apply(g, targets, "multiplier", func(ls *LightState) { ls.Multiplier = factor })
}

// Flash stores c opaque; its alpha arrives through ChangeMultiplierAlpha.
func (s *StateStore) Flash(g *lighting.Group, c color.Color, targets []*lighting.Light) {
	opaque := c.WithAlpha(1)
	s.apply(g, targets, "flash", func(ls *LightState) {
		ls.Color = opaque
		ls.Alpha = 1
	})
}

// Fade stores c opaque like Flash.
func (s *StateStore) Fade(g *lighting.Group, c color.Color, targets []*lighting.Light) {
	opaque := c.WithAlpha(1)
	s.apply(g, targets, "fade", func(ls *LightState) {
		ls.Color = opaque
		ls.Alpha = 1
	})
}

func (s *StateStore) SetValue(g *lighting.Group, value int) {
	s.apply(g, g.Lights, "", func(ls *LightState) { ls.Value = value })
}

// Boost records the palette pair the fixtures should now use.
func (s *StateStore) Boost(_ *lighting.Group, red, blue color.Color) {
	s.mu.Lock()
	s.red, s.blue = red, blue
	s.mu.Unlock()
}

// apply mutates the targeted lights and notifies listeners with copies.
// An empty effect keeps the light's previous effect.
func (s *StateStore) apply(g *lighting.Group, targets []*lighting.Light, effect string, fn func(*LightState)) {
	if g == nil || len(targets) == 0 {
		return
	}

	now := s.now()
	s.mu.Lock()
	lights := s.ensureLocked(g)
	changed := make([]LightState, 0, len(targets))
	for _, l := range targets {
		if l.Index < 0 || l.Index >= len(lights) {
			continue
		}
		ls := &lights[l.Index]
		fn(ls)
		if effect != "" {
			ls.Effect = effect
		}
		ls.UpdatedAt = now
		changed = append(changed, *ls)
	}
	listeners := s.listeners
	s.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	metrics.RecordSinkWrite("state")
	for _, l := range listeners {
		l.OnChange(changed)
	}
}

func (s *StateStore) ensureLocked(g *lighting.Group) []LightState {
	if lights, ok := s.groups[g.Name]; ok && len(lights) == len(g.Lights) {
		return lights
	}
	lights := make([]LightState, len(g.Lights))
	for i, l := range g.Lights {
		lights[i] = LightState{
			Group:      g.Name,
			Type:       g.Type,
			Index:      i,
			Inverted:   l.Inverted,
			Color:      color.Black,
			Multiplier: 1,
		}
	}
	s.groups[g.Name] = lights
	return lights
}
