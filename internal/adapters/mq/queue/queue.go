// Package queue buffers live events between the HTTP API and the player.
package queue

import (
	"context"
	"sync"

	"github.com/okian/lightshow/internal/domain/model"
	"github.com/okian/lightshow/pkg/metrics"
)

const defaultQueueCapacity = 4096

// Event is the payload type flowing through the queue.
type Event = model.Event

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds an event. It fails fast when the queue is full or closed.
	Enqueue(ctx context.Context, e Event) error

	// Dequeue returns the consumer channel. It is closed after Close once
	// the backlog has drained.
	Dequeue(ctx context.Context) <-chan Event

	Len() int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int

	mu     sync.RWMutex
	closed bool

	once sync.Once
	out  chan Event
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)
	return q
}

// Enqueue adds an event to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam: value semantics for channel send
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return err
	}

	select {
	case q.events <- e:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "full")
		return ErrFull
	}
}

// Dequeue returns the consumer channel. Every call returns the same channel;
// the forwarding goroutine stops when ctx of the first call ends.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Event {
	q.once.Do(func() {
		q.out = make(chan Event)
		go func() {
			defer close(q.out)
			for ev := range q.events {
				select {
				case q.out <- ev:
					metrics.RecordQueueDequeue()
					q.observe()
				case <-ctx.Done():
					return
				}
			}
		}()
	})
	return q.out
}

// Len returns the number of buffered events.
func (q *InMemoryQueue) Len() int {
	return len(q.events)
}

// Close stops accepting events. Buffered events are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.events)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() {
	size := len(q.events)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
