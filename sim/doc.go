// Package sim provides the discrete-event engine for an M/M/c queue:
// Poisson arrivals at rate λ, M identical servers each completing work at
// exponential rate μ, and one FIFO waiting line in front of them.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: the Event record and its arrival → departure transition
//   - schedule.go: EventSchedule, the min-heap of pending events
//   - queue.go: WaitQueue, the FIFO line of customers waiting for a server
//   - engine.go: the event loop, arrival/departure handling and replenishment
//
// # Determinism
//
// All randomness flows through the RandomSource values injected into
// NewEngine. NewSeededEngine derives separate arrival and service streams
// from one SimulationKey, so equal keys and configs give identical Results.
// Events with equal timestamps leave the schedule in insertion order.
//
// # Sub-packages
//   - sim/analytic/: closed-form steady-state measures to compare against
//   - sim/trace/: optional per-event trace records
package sim
