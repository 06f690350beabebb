package sim

import (
	"container/heap"
	"fmt"
)

// DefaultScheduleCapacity is the reference safety bound on pending events.
// The engine never holds more than M+2 events in the schedule (one departure
// per busy server plus the replenished arrivals), so any M <= 198 fits.
const DefaultScheduleCapacity = 200

// EventSchedule is a min-heap of pending events ordered by SortKey.
// Events with equal SortKey are handed out in insertion order.
type EventSchedule struct {
	events   eventHeap
	capacity int    // 0 = unbounded
	nextSeq  uint64 // monotonically increasing insertion counter
}

// NewEventSchedule creates an empty schedule. A capacity of 0 means the heap
// grows without bound; a positive capacity makes Insert fail with ErrOverflow
// once that many events are pending.
func NewEventSchedule(capacity int) *EventSchedule {
	if capacity < 0 {
		panic(fmt.Sprintf("NewEventSchedule: capacity must be >= 0, got %d", capacity))
	}
	s := &EventSchedule{
		events:   make(eventHeap, 0),
		capacity: capacity,
	}
	heap.Init(&s.events)
	return s
}

// Insert adds an event to the schedule in O(log n).
func (s *EventSchedule) Insert(e *Event) error {
	if e == nil {
		panic("Insert: event must not be nil")
	}
	if s.capacity > 0 && s.events.Len() >= s.capacity {
		return fmt.Errorf("insert %s: %w (capacity %d)", e, ErrOverflow, s.capacity)
	}
	e.seq = s.nextSeq
	s.nextSeq++
	heap.Push(&s.events, e)
	return nil
}

// ExtractMin removes and returns the event with the smallest SortKey.
func (s *EventSchedule) ExtractMin() (*Event, error) {
	if s.IsEmpty() {
		return nil, fmt.Errorf("extract min: %w", ErrUnderflow)
	}
	return heap.Pop(&s.events).(*Event), nil
}

// PeekMin returns the next event without removing it.
func (s *EventSchedule) PeekMin() (*Event, error) {
	if s.IsEmpty() {
		return nil, fmt.Errorf("peek min: %w", ErrUnderflow)
	}
	return s.events[0], nil
}

// IsEmpty returns true if no events are pending.
func (s *EventSchedule) IsEmpty() bool {
	return s.events.Len() == 0
}

// Len returns the number of pending events.
func (s *EventSchedule) Len() int {
	return s.events.Len()
}

// Cap returns the configured capacity (0 = unbounded).
func (s *EventSchedule) Cap() int {
	return s.capacity
}

// Events returns a copy of the pending events in heap order (for inspection/debugging).
func (s *EventSchedule) Events() []*Event {
	events := make([]*Event, len(s.events))
	copy(events, s.events)
	return events
}

// CountKind returns how many pending events carry the given kind.
func (s *EventSchedule) CountKind(kind EventKind) int {
	count := 0
	for _, e := range s.events {
		if e.Kind == kind {
			count++
		}
	}
	return count
}

// Verify checks the min-heap property: no parent sorts after either child.
func (s *EventSchedule) Verify() error {
	for i := 1; i < len(s.events); i++ {
		parent := (i - 1) / 2
		if s.events.Less(i, parent) {
			return fmt.Errorf("heap property violated: parent %d (%s) sorts after child %d (%s)",
				parent, s.events[parent], i, s.events[i])
		}
	}
	return nil
}

// eventHeap implements heap.Interface for *Event.
// Order by: SortKey → insertion sequence.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].SortKey != h[j].SortKey {
		return h[i].SortKey < h[j].SortKey
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return item
}
