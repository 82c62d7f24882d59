package preview

import "time"

// Option configures a Preview.
type Option func(*Preview)

// WithRefresh sets the redraw interval.
func WithRefresh(d time.Duration) Option {
	return func(p *Preview) {
		if d > 0 {
			p.refresh = d
		}
	}
}

// WithOnQuit is called when the user asks to quit.
func WithOnQuit(fn func()) Option {
	return func(p *Preview) { p.onQuit = fn }
}

// WithStatus supplies the text of the bottom status line.
func WithStatus(fn func() string) Option {
	return func(p *Preview) { p.status = fn }
}
