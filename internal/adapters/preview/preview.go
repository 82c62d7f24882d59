// Package preview draws the rig in a terminal while a show plays.
package preview

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/okian/lightshow/internal/adapters/repository"
	"github.com/okian/lightshow/internal/domain/color"
)

const (
	defaultRefresh = 33 * time.Millisecond // ~30 FPS
	labelWidth     = 14
	cellWidth      = 2
	eventBuffer    = 16
)

// Cell is one drawn terminal cell.
type Cell struct {
	X, Y  int
	Rune  rune
	Color color.Color
	Label bool
}

// Preview is a repository.Listener that mirrors light state on a tcell screen.
type Preview struct {
	screen  tcell.Screen
	refresh time.Duration
	onQuit  func()
	status  func() string

	mu     sync.Mutex
	groups map[string][]repository.LightState
	dirty  bool
}

var _ repository.Listener = (*Preview)(nil)

// New creates a preview on screen. The screen is initialised by Run.
func New(screen tcell.Screen, opts ...Option) *Preview {
	p := &Preview{
		screen:  screen,
		refresh: defaultRefresh,
		groups:  make(map[string][]repository.LightState),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Seed copies the lights of a store snapshot so every group shows up
// before it is first lit.
func (p *Preview) Seed(s repository.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for name, lights := range s.Groups {
		p.groups[name] = append([]repository.LightState(nil), lights...)
	}
	p.dirty = true
}

// OnChange implements repository.Listener.
func (p *Preview) OnChange(states []repository.LightState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range states {
		st := states[i]
		lights := p.groups[st.Group]
		for len(lights) <= st.Index {
			lights = append(lights, repository.LightState{Group: st.Group, Index: len(lights), Multiplier: 1})
		}
		lights[st.Index] = st
		p.groups[st.Group] = lights
	}
	p.dirty = true
}

// Run initialises the screen and redraws until ctx is done or the user
// presses q or Esc.
func (p *Preview) Run(ctx context.Context) error {
	if err := p.screen.Init(); err != nil {
		return fmt.Errorf("preview init: %w", err)
	}
	defer p.screen.Fini()

	events := make(chan tcell.Event, eventBuffer)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(p.refresh)
	defer ticker.Stop()

	p.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if quit(ev) {
				if p.onQuit != nil {
					p.onQuit()
				}
				return nil
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				p.screen.Sync()
				p.markDirty()
			}
		case <-ticker.C:
			p.Draw()
		}
	}
}

// Draw renders the current state if anything changed.
func (p *Preview) Draw() {
	p.mu.Lock()
	if !p.dirty {
		p.mu.Unlock()
		return
	}
	cells := Layout(p.groups)
	p.dirty = false
	p.mu.Unlock()

	p.screen.Clear()
	for _, c := range cells {
		style := tcell.StyleDefault
		if c.Label {
			style = style.Foreground(tcell.ColorWhite)
		} else {
			r, g, b, _ := dim(c.Color).RGBA255()
			style = style.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
		}
		p.screen.SetContent(c.X, c.Y, c.Rune, nil, style)
	}
	if p.status != nil {
		_, h := p.screen.Size()
		drawText(p.screen, 0, h-1, p.status())
	}
	p.screen.Show()
}

func (p *Preview) markDirty() {
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
}

// Layout places one group per row, sorted by name: a label followed by a
// block per light.
func Layout(groups map[string][]repository.LightState) []Cell {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var cells []Cell
	for y, name := range names {
		label := []rune(name)
		if len(label) > labelWidth-1 {
			label = label[:labelWidth-1]
		}
		for x, r := range label {
			cells = append(cells, Cell{X: x, Y: y, Rune: r, Label: true})
		}
		for i, st := range groups[name] {
			out := st.Output()
			for k := 0; k < cellWidth; k++ {
				cells = append(cells, Cell{X: labelWidth + i*(cellWidth+1) + k, Y: y, Rune: '█', Color: out})
			}
		}
	}
	return cells
}

// dim folds alpha into the channels, as the light would look on black.
func dim(c color.Color) color.Color {
	a := c.A
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.RGBA(c.R*a, c.G*a, c.B*a, 1)
}

func quit(ev tcell.Event) bool {
	k, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	return k.Key() == tcell.KeyEscape || k.Key() == tcell.KeyCtrlC ||
		(k.Key() == tcell.KeyRune && k.Rune() == 'q')
}

func drawText(s tcell.Screen, x, y int, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}
