// Implements the WaitQueue, which holds customers that arrived while every
// server was busy. Customers are enqueued on arrival and dequeued on departure.

package sim

import (
	"fmt"
	"strings"
)

// WaitQueue is the single FIFO waiting line in front of the M servers.
// Customers leave in exactly the order they joined.
type WaitQueue struct {
	queue []*Event // FIFO queue of waiting customers
}

// Enqueue adds a customer to the back of the line.
func (wq *WaitQueue) Enqueue(e *Event) {
	if e == nil {
		panic("Enqueue: event must not be nil")
	}
	wq.queue = append(wq.queue, e)
}

// Dequeue removes the customer at the front of the line.
// Returns ErrUnderflow if the line is empty; the queue is left untouched.
func (wq *WaitQueue) Dequeue() (*Event, error) {
	if len(wq.queue) == 0 {
		return nil, fmt.Errorf("dequeue: %w", ErrUnderflow)
	}
	head := wq.queue[0]
	wq.queue[0] = nil
	wq.queue = wq.queue[1:]
	if len(wq.queue) == 0 {
		// release the drained backing array
		wq.queue = nil
	}
	return head, nil
}

// Peek returns the customer at the front of the line without removing it.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Peek() *Event {
	if len(wq.queue) == 0 {
		return nil
	}
	return wq.queue[0]
}

// Len returns the number of waiting customers.
func (wq *WaitQueue) Len() int {
	return len(wq.queue)
}

// IsEmpty reports whether nobody is waiting.
func (wq *WaitQueue) IsEmpty() bool {
	return len(wq.queue) == 0
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range wq.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(wq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
