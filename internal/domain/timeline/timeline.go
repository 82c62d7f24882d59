// Package timeline orders pending events by beat.
package timeline

import (
	"container/heap"

	"github.com/okian/lightshow/internal/domain/model"
)

type item struct {
	ev  model.Event
	seq uint64
}

type eventHeap []item

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].ev.Time != h[j].ev.Time {
		return h[i].ev.Time < h[j].ev.Time
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(item)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Timeline is a min-heap of events keyed by (time, insertion order).
// Events at the same beat come out in the order they were pushed.
// It is not safe for concurrent use.
type Timeline struct {
	h   eventHeap
	seq uint64
}

// New returns an empty timeline.
func New() *Timeline {
	return &Timeline{}
}

// Push schedules events.
func (t *Timeline) Push(evs ...model.Event) {
	for _, ev := range evs {
		heap.Push(&t.h, item{ev: ev, seq: t.seq})
		t.seq++
	}
}

// Due removes and returns every event with Time <= beat, in order.
func (t *Timeline) Due(beat float64) []model.Event {
	var out []model.Event
	for len(t.h) > 0 && t.h[0].ev.Time <= beat {
		out = append(out, heap.Pop(&t.h).(item).ev)
	}
	return out
}

// Peek returns the next event without removing it.
func (t *Timeline) Peek() (model.Event, bool) {
	if len(t.h) == 0 {
		return model.Event{}, false
	}
	return t.h[0].ev, true
}

// Len is the number of pending events.
func (t *Timeline) Len() int { return len(t.h) }

// Reset drops every pending event.
func (t *Timeline) Reset() {
	t.h = nil
}
