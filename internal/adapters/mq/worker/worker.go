// Package worker runs the player loop that owns the lighting engine.
package worker

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/okian/lightshow/internal/adapters/mq/queue"
	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/internal/domain/model"
	"github.com/okian/lightshow/internal/domain/timeline"
	"github.com/okian/lightshow/pkg/logger"
	"github.com/okian/lightshow/pkg/metrics"
)

const (
	defaultFrameRate = 60
	msPerSecond      = 1000.0
)

// Event is what the player reads off the queue.
type Event = queue.Event

// Queue defines how the player receives live events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Journal records every dispatched event.
type Journal interface {
	Record(ctx context.Context, beat float64, ev model.Event) error
}

// Worker is a long running loop.
type Worker interface {
	// Run starts the loop until ctx is canceled or Shutdown is called.
	Run(ctx context.Context)

	// Shutdown stops the loop and waits for it to exit.
	Shutdown(ctx context.Context) error
}

type request struct {
	fn   func(ctx context.Context, e *lighting.Engine)
	done chan struct{}
}

// Player is the single goroutine that owns the engine and its timeline.
// Live events and scheduled events both land in the timeline; every frame
// releases the ones the clock has reached and then advances gradients.
type Player struct {
	engine   *lighting.Engine
	clock    lighting.Clock
	queue    Queue
	timeline *timeline.Timeline
	journal  Journal
	name     string
	frame    time.Duration

	control  chan request
	shutdown chan struct{}
	done     chan struct{}
	started  atomic.Bool

	dispatched atomic.Int64
	pending    atomic.Int64
	beat       atomic.Uint64 // math.Float64bits of the last frame's beat
	next       atomic.Uint64 // math.Float64bits of the earliest pending beat, or of -1

	logger logger.Logger
}

var _ Worker = (*Player)(nil)

// NewPlayer creates a player. clock must be the clock the engine was built with.
func NewPlayer(engine *lighting.Engine, clock lighting.Clock, q Queue, opts ...Option) *Player {
	p := &Player{
		engine:   engine,
		clock:    clock,
		queue:    q,
		timeline: timeline.New(),
		name:     "player",
		frame:    time.Second / defaultFrameRate,
		control:  make(chan request),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named(p.name)
	p.publishPending()
	return p
}

// Preload schedules beatmap events. It must be called before Run.
func (p *Player) Preload(evs ...model.Event) {
	p.timeline.Push(evs...)
	p.publishPending()
}

// Run starts the player loop.
// A stopped player discards whatever is still scheduled.
func (p *Player) Run(ctx context.Context) {
	p.started.Store(true)
	defer close(p.done)
	defer p.discard(ctx)

	ticker := time.NewTicker(p.frame)
	defer ticker.Stop()

	events := p.queue.Dequeue(ctx)
	p.logger.Info(ctx, "player started", logger.Duration("frame", p.frame))
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			p.accept(ctx, ev)
		case req := <-p.control:
			req.fn(ctx, p.engine)
			close(req.done)
		case <-ticker.C:
			p.Step(ctx)
		}
	}
}

// Do runs fn on the player goroutine and waits for it to finish.
func (p *Player) Do(ctx context.Context, fn func(ctx context.Context, e *lighting.Engine)) error {
	if !p.started.Load() {
		return ErrNotRunning
	}
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case p.control <- req:
	case <-p.done:
		return ErrStopped
	case <-ctx.Done():
		return fmt.Errorf("player request: %w", ctx.Err())
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("player request: %w", ctx.Err())
	}
}

// Step runs one frame: due events are dispatched in timeline order and then
// running gradients advance. It returns the number of events dispatched.
// Outside tests it is only called from Run.
func (p *Player) Step(ctx context.Context) int {
	start := time.Now()
	beat := p.clock.CurrentBeat()

	due := p.timeline.Due(beat)
	for _, ev := range due {
		p.engine.Dispatch(ctx, ev)
		p.record(ctx, beat, ev)
	}
	p.engine.Tick(ctx)

	p.dispatched.Add(int64(len(due)))
	p.beat.Store(math.Float64bits(beat))
	p.publishPending()

	metrics.UpdateCurrentBeat(beat)
	metrics.RecordFrameLatency(float64(time.Since(start).Microseconds()) / msPerSecond)
	return len(due)
}

// Shutdown gracefully stops the player.
func (p *Player) Shutdown(ctx context.Context) error {
	select {
	case <-p.shutdown:
	default:
		close(p.shutdown)
	}
	if !p.started.Load() {
		return nil
	}

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Stats returns counters safe to read from any goroutine.
func (p *Player) Stats() Stats {
	return Stats{
		Dispatched: p.dispatched.Load(),
		Pending:    p.pending.Load(),
		Beat:       math.Float64frombits(p.beat.Load()),
		NextBeat:   math.Float64frombits(p.next.Load()),
	}
}

// Stats summarises player progress.
type Stats struct {
	Dispatched int64
	Pending    int64
	Beat       float64
	NextBeat   float64 // -1 when nothing is pending
}

func (p *Player) accept(ctx context.Context, ev Event) { //nolint:gocritic // hugeParam: Event comes by value off the channel
	if err := ev.Validate(); err != nil {
		metrics.RecordEventIgnored("invalid")
		p.logger.Warn(ctx, "dropping live event", logger.String("id", ev.ID), logger.Error(err))
		return
	}
	p.timeline.Push(ev)
	p.publishPending()
}

// publishPending mirrors the timeline into the counters Stats reads. Only
// the goroutine that owns the timeline calls it.
func (p *Player) publishPending() {
	next := -1.0
	if ev, ok := p.timeline.Peek(); ok {
		next = ev.Time
	}
	p.next.Store(math.Float64bits(next))
	p.pending.Store(int64(p.timeline.Len()))
	metrics.UpdateTimelinePending(p.timeline.Len())
}

func (p *Player) discard(ctx context.Context) {
	if n := p.timeline.Len(); n > 0 {
		p.logger.Info(ctx, "discarding scheduled events", logger.Int("pending", n))
	}
	p.timeline.Reset()
	p.publishPending()
}

func (p *Player) record(ctx context.Context, beat float64, ev model.Event) {
	if p.journal == nil {
		return
	}
	if err := p.journal.Record(ctx, beat, ev); err != nil {
		metrics.RecordSinkError("journal")
		metrics.RecordErrorByComponent("player", "journal_error")
		p.logger.Error(ctx, "journal write failed",
			logger.String("id", ev.ID),
			logger.Error(err))
	}
}
