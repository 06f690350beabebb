package sim

import "errors"

var (
	// ErrUnderflow is returned when extracting from an empty EventSchedule or WaitQueue.
	// The engine checks emptiness before every extraction, so seeing this
	// from Run means the loop's own bookkeeping is broken.
	ErrUnderflow = errors.New("underflow: structure is empty")

	// ErrOverflow is returned when inserting into an EventSchedule that has
	// reached its configured capacity.
	ErrOverflow = errors.New("overflow: event schedule capacity exceeded")

	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrEngineFinished is returned when Run or Step is called on an engine
	// that has already terminated.
	ErrEngineFinished = errors.New("engine already finished")

	// ErrNoCustomers and ErrZeroClock guard the ratio measures in Results.Derived.
	ErrNoCustomers = errors.New("no customers were processed")
	ErrZeroClock   = errors.New("simulation clock never advanced")
)
