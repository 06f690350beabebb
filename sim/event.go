package sim

import "fmt"

// EventKind tags an Event as an arrival or a departure.
type EventKind int

const (
	// EventArrival is a customer entering the system, not yet assigned a server.
	EventArrival EventKind = iota
	// EventDeparture is a customer in service; its SortKey is the completion time.
	EventDeparture
)

func (k EventKind) String() string {
	switch k {
	case EventArrival:
		return "arrival"
	case EventDeparture:
		return "departure"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Event is a single customer moving through the system. The same value is
// scheduled as an arrival, may wait in the WaitQueue, and is rescheduled in
// place as a departure once a server is assigned.
type Event struct {
	ID               int64     // Customer sequence number, starting at 1
	Kind             EventKind // Dispatch tag
	ArrivalTime      float64   // Time the customer entered the system
	ServiceStartTime float64   // Time a server was assigned (0 until then)
	DepartureTime    float64   // Time service completes (0 until a server is assigned)
	SortKey          float64   // Time at which the schedule should next hand this event out

	seq uint64 // insertion order, set by EventSchedule for tie-breaking
}

// NewArrivalEvent creates a pending arrival for customer id at time t.
func NewArrivalEvent(id int64, t float64) *Event {
	return &Event{
		ID:          id,
		Kind:        EventArrival,
		ArrivalTime: t,
		SortKey:     t,
	}
}

// Timestamp returns the time this event is next processed.
func (e *Event) Timestamp() float64 {
	return e.SortKey
}

// AssignServer turns the event into a departure: service starts at start and
// completes duration later.
func (e *Event) AssignServer(start, duration float64) {
	e.ServiceStartTime = start
	e.DepartureTime = start + duration
	e.SortKey = e.DepartureTime
	e.Kind = EventDeparture
}

// Wait returns how long the customer spent in the waiting line.
// Only meaningful after AssignServer.
func (e *Event) Wait() float64 {
	return e.ServiceStartTime - e.ArrivalTime
}

func (e *Event) String() string {
	return fmt.Sprintf("%s#%d@%.4f", e.Kind, e.ID, e.SortKey)
}
