package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/lightshow/internal/domain/model"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if err := q.Enqueue(ctx, model.Event{ID: "event1", Type: model.TypeRingLights, Value: model.ValueBlueOn, Time: 1}); err != nil {
		t.Fatalf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	ev := <-q.Dequeue(ctx)
	if ev.ID != "event1" || ev.Value != model.ValueBlueOn {
		t.Errorf("unexpected event %+v", ev)
	}
	if l := q.Len(); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := q.Enqueue(ctx, model.Event{ID: fmt.Sprintf("event%d", i)}); err != nil {
			t.Fatalf("expected enqueue to succeed, got %v", err)
		}
	}

	if err := q.Enqueue(ctx, model.Event{ID: "overflow"}); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, model.Event{ID: "late"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInMemoryQueue_ConcurrentProducers(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(64))
	ctx := context.Background()
	producers, perProducer := 8, 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				ev := model.Event{ID: fmt.Sprintf("event%d_%d", id, j), Time: float64(j)}
				for q.Enqueue(ctx, ev) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	seen := make(map[string]bool)
	events := q.Dequeue(ctx)
	timeout := time.After(5 * time.Second)
	for len(seen) < producers*perProducer {
		select {
		case ev := <-events:
			seen[ev.ID] = true
		case <-timeout:
			t.Fatalf("only received %d events", len(seen))
		}
	}
	wg.Wait()

	if l := q.Len(); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	_ = q.Enqueue(ctx, model.Event{ID: "event1"})
	_ = q.Enqueue(ctx, model.Event{ID: "event2"})

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if err := q.Enqueue(ctx, model.Event{ID: "event3"}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	var drained []string
	events := q.Dequeue(ctx)
	timeout := time.After(time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				if len(drained) != 2 {
					t.Errorf("expected backlog of 2 to drain, got %v", drained)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			drained = append(drained, ev.ID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}

func TestInMemoryQueue_DequeueIsShared(t *testing.T) {
	q := NewInMemoryQueue()
	ctx := context.Background()
	if q.Dequeue(ctx) != q.Dequeue(ctx) {
		t.Error("expected the same channel on every call")
	}
}
