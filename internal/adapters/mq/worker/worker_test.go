package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/lightshow/internal/adapters/clock"
	"github.com/okian/lightshow/internal/adapters/mq/queue"
	"github.com/okian/lightshow/internal/adapters/mq/worker"
	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	eventChan chan queue.Event
}

func newMockQueue() *mockQueue {
	return &mockQueue{eventChan: make(chan queue.Event, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Event {
	return mq.eventChan
}

type mockJournal struct {
	mu    sync.Mutex
	ids   []string
	beats []float64
	err   error
}

func (mj *mockJournal) Record(_ context.Context, beat float64, ev model.Event) error {
	mj.mu.Lock()
	defer mj.mu.Unlock()
	if mj.err != nil {
		return mj.err
	}
	mj.ids = append(mj.ids, ev.ID)
	mj.beats = append(mj.beats, beat)
	return nil
}

func (mj *mockJournal) recorded() []string {
	mj.mu.Lock()
	defer mj.mu.Unlock()
	return append([]string(nil), mj.ids...)
}

func newEngine(clk lighting.Clock) *lighting.Engine {
	lights := []*lighting.Light{{}, {}, {Inverted: true}}
	e, err := lighting.NewEngine(
		[]*lighting.Group{
			lighting.NewGroup("ring", model.TypeRingLights, lights),
			lighting.NewGroup("center", model.TypeCenterLights, []*lighting.Light{{}}),
		},
		lighting.WithClock(clk),
	)
	if err != nil {
		panic(err)
	}
	return e
}

func TestPlayerStep(t *testing.T) {
	convey.Convey("Given a player with preloaded events", t, func() {
		clk := clock.NewManual(0)
		engine := newEngine(clk)
		journal := &mockJournal{}
		p := worker.NewPlayer(engine, clk, newMockQueue(), worker.WithJournal(journal))
		p.Preload(
			model.Event{ID: "b", Type: model.TypeRingLights, Value: model.ValueRedOn, Time: 2},
			model.Event{ID: "a", Type: model.TypeRingLights, Value: model.ValueBlueOn, Time: 1},
			model.Event{ID: "c", Type: model.TypeCenterLights, Value: model.ValueBlueFlash, Time: 4},
		)
		ctx := context.Background()

		convey.So(p.Stats().Pending, convey.ShouldEqual, 3)
		convey.So(p.Stats().NextBeat, convey.ShouldEqual, 1)

		convey.Convey("When the clock has not reached any event", func() {
			convey.So(p.Step(ctx), convey.ShouldEqual, 0)
			convey.So(journal.recorded(), convey.ShouldBeEmpty)
		})

		convey.Convey("When the clock passes two events", func() {
			clk.Set(2.5)
			n := p.Step(ctx)

			convey.Convey("Then both are dispatched in time order and journaled", func() {
				convey.So(n, convey.ShouldEqual, 2)
				convey.So(journal.recorded(), convey.ShouldResemble, []string{"a", "b"})
				convey.So(engine.Group(model.TypeRingLights).LastValue(), convey.ShouldEqual, model.ValueRedOn)
				convey.So(engine.Group(model.TypeCenterLights).LastValue(), convey.ShouldEqual, model.ValueOff)
			})

			convey.Convey("Then stats reflect the frame", func() {
				s := p.Stats()
				convey.So(s.Dispatched, convey.ShouldEqual, 2)
				convey.So(s.Pending, convey.ShouldEqual, 1)
				convey.So(s.Beat, convey.ShouldEqual, 2.5)
				convey.So(s.NextBeat, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the journal fails", func() {
			journal.err = errors.New("disk full")
			clk.Set(10)

			convey.Convey("Then playback still proceeds", func() {
				convey.So(p.Step(ctx), convey.ShouldEqual, 3)
				convey.So(engine.Group(model.TypeCenterLights).LastValue(), convey.ShouldEqual, model.ValueBlueFlash)
			})
		})
	})
}

func TestPlayerRun(t *testing.T) {
	convey.Convey("Given a running player", t, func() {
		clk := clock.NewManual(0)
		engine := newEngine(clk)
		q := newMockQueue()
		journal := &mockJournal{}
		p := worker.NewPlayer(engine, clk, q,
			worker.WithName("test-player"),
			worker.WithFrameRate(500),
			worker.WithJournal(journal))

		convey.Convey("Do is rejected before Run", func() {
			err := p.Do(context.Background(), func(context.Context, *lighting.Engine) {})
			convey.So(errors.Is(err, worker.ErrNotRunning), convey.ShouldBeTrue)
		})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go p.Run(ctx)
		time.Sleep(10 * time.Millisecond)

		convey.Convey("When a live event arrives for the current beat", func() {
			q.eventChan <- model.Event{ID: "live-1", Type: model.TypeRingLights, Value: model.ValueBlueFade, Time: 0}

			convey.Convey("Then a frame dispatches it", func() {
				convey.So(waitFor(func() bool { return len(journal.recorded()) == 1 }), convey.ShouldBeTrue)
				convey.So(journal.recorded()[0], convey.ShouldEqual, "live-1")
			})
		})

		convey.Convey("When a live event is invalid", func() {
			q.eventChan <- model.Event{ID: "bad", Type: -1}
			q.eventChan <- model.Event{ID: "good", Type: model.TypeCenterLights, Value: model.ValueRedOn}

			convey.Convey("Then it is dropped", func() {
				convey.So(waitFor(func() bool { return len(journal.recorded()) == 1 }), convey.ShouldBeTrue)
				convey.So(journal.recorded(), convey.ShouldResemble, []string{"good"})
			})
		})

		convey.Convey("When a control request is sent", func() {
			var mods lighting.Modifiers
			err := p.Do(context.Background(), func(_ context.Context, e *lighting.Engine) {
				e.SetSolo(true, model.TypeCenterLights)
				mods = e.Modifiers()
			})

			convey.Convey("Then it runs on the player goroutine", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(mods.SoloActive, convey.ShouldBeTrue)
				convey.So(mods.SoloType, convey.ShouldEqual, model.TypeCenterLights)
			})
		})

		convey.Convey("When shut down", func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			convey.So(p.Shutdown(shutdownCtx), convey.ShouldBeNil)

			convey.Convey("Then further requests fail", func() {
				err := p.Do(context.Background(), func(context.Context, *lighting.Engine) {})
				convey.So(errors.Is(err, worker.ErrStopped), convey.ShouldBeTrue)
			})

			convey.Convey("Then a second shutdown is harmless", func() {
				convey.So(p.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return false
}

func TestPlayerFrameRateClamp(t *testing.T) {
	convey.Convey("Given a player asked for more frames than nanoseconds", t, func() {
		clk := clock.NewManual(0)
		p := worker.NewPlayer(newEngine(clk), clk, newMockQueue(), worker.WithFrameRate(2_000_000_000))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan struct{})
		go func() {
			p.Run(ctx)
			close(done)
		}()

		convey.Convey("Then it still runs and accepts control requests", func() {
			ok := waitFor(func() bool {
				return p.Do(context.Background(), func(context.Context, *lighting.Engine) {}) == nil
			})
			cancel()
			<-done
			convey.So(ok, convey.ShouldBeTrue)
		})
	})
}

func TestPlayerStopDiscardsSchedule(t *testing.T) {
	convey.Convey("Given a running player with future events", t, func() {
		clk := clock.NewManual(0)
		p := worker.NewPlayer(newEngine(clk), clk, newMockQueue(), worker.WithFrameRate(500))
		p.Preload(model.Event{ID: "later", Type: model.TypeRingLights, Value: model.ValueRedOn, Time: 64})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan struct{})
		go func() {
			p.Run(ctx)
			close(done)
		}()

		convey.Convey("When its context ends", func() {
			cancel()
			<-done

			convey.Convey("Then nothing is left pending", func() {
				s := p.Stats()
				convey.So(s.Pending, convey.ShouldEqual, 0)
				convey.So(s.NextBeat, convey.ShouldEqual, -1)
				convey.So(s.Dispatched, convey.ShouldEqual, 0)
			})
		})
	})
}
