// Package trace provides per-event trace recording for queueing runs.
// It has no dependencies on sim/ and only stores plain data types.
package trace

// EventRecord captures the system state right after one event was processed.
type EventRecord struct {
	Seq        int     // 1-based position in processing order
	Clock      float64 // simulation time of the event
	Kind       string  // "arrival" or "departure"
	CustomerID int64
	QueueLen   int  // waiting line length after handling
	Available  int  // free servers after handling
	Queued     bool // arrival went to the waiting line instead of a server
}
