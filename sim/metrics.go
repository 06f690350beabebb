// Tracks the accumulators of a finished run and the ratio measures derived from them.

package sim

import (
	"fmt"
	"io"
)

// Results aggregates statistics about a run for final reporting.
type Results struct {
	RunID            string    // Unique identifier of the run
	Servers          int       // Number of servers M
	TotalCustomers   int       // Arrivals processed
	CustomersServed  int       // Departures processed
	CustomersWaited  int       // Customers whose wait in line was strictly positive
	TotalWaitTime    float64   // Sum of time spent in the waiting line
	TotalServiceTime float64   // Sum of service durations of every admitted customer
	TotalIdleTime    float64   // Sum of spans during which every server was idle
	Clock            float64   // Simulation time at the end of the run
	EventsProcessed  int       // Events extracted from the schedule
	MaxQueueLen      int       // Longest waiting line observed
	WaitTimes        []float64 // Per-customer wait, in admission order (0 for immediate service)
}

// DerivedMeasures are the steady-state estimates computed from Results.
type DerivedMeasures struct {
	P0         float64 // fraction of time every server was idle
	W          float64 // mean time in system
	Wq         float64 // mean time in line
	Rho        float64 // server utilization
	PWait      float64 // probability an arriving customer waits
	Throughput float64 // departures per unit time
}

// Derived computes the ratio measures. It fails rather than dividing by zero
// when no customer arrived or the clock never moved.
func (r *Results) Derived() (DerivedMeasures, error) {
	if r.TotalCustomers == 0 {
		return DerivedMeasures{}, ErrNoCustomers
	}
	if r.Clock <= 0 {
		return DerivedMeasures{}, ErrZeroClock
	}
	n := float64(r.TotalCustomers)
	servers := max(r.Servers, 1)
	return DerivedMeasures{
		P0:         r.TotalIdleTime / r.Clock,
		W:          (r.TotalWaitTime + r.TotalServiceTime) / n,
		Wq:         r.TotalWaitTime / n,
		Rho:        r.TotalServiceTime / (float64(servers) * r.Clock),
		PWait:      float64(r.CustomersWaited) / n,
		Throughput: float64(r.CustomersServed) / r.Clock,
	}, nil
}

// Print writes the raw accumulators and, when defined, the derived measures.
func (r *Results) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Results ===")
	fmt.Fprintf(w, "Run ID               : %s\n", r.RunID)
	fmt.Fprintf(w, "Events Processed     : %d\n", r.EventsProcessed)
	fmt.Fprintf(w, "Final Clock          : %.4f\n", r.Clock)
	fmt.Fprintf(w, "Customers Arrived    : %d\n", r.TotalCustomers)
	fmt.Fprintf(w, "Customers Served     : %d\n", r.CustomersServed)
	fmt.Fprintf(w, "Customers Waited     : %d\n", r.CustomersWaited)
	fmt.Fprintf(w, "Total Wait Time      : %.4f\n", r.TotalWaitTime)
	fmt.Fprintf(w, "Total Service Time   : %.4f\n", r.TotalServiceTime)
	fmt.Fprintf(w, "Total Idle Time      : %.4f\n", r.TotalIdleTime)
	fmt.Fprintf(w, "Max Queue Length     : %d\n", r.MaxQueueLen)

	d, err := r.Derived()
	if err != nil {
		fmt.Fprintf(w, "Derived measures unavailable: %v\n", err)
		return
	}
	fmt.Fprintf(w, "P0 (all idle)        : %.4f\n", d.P0)
	fmt.Fprintf(w, "W  (time in system)  : %.4f\n", d.W)
	fmt.Fprintf(w, "Wq (time in line)    : %.4f\n", d.Wq)
	fmt.Fprintf(w, "Rho (utilization)    : %.4f\n", d.Rho)
	fmt.Fprintf(w, "P(wait)              : %.4f\n", d.PWait)

	if s := r.WaitSummary(); s.Count > 0 {
		fmt.Fprintf(w, "Wait mean/std        : %.4f / %.4f\n", s.Mean, s.StdDev)
		fmt.Fprintf(w, "Wait p50/p95/p99/max : %.4f / %.4f / %.4f / %.4f\n", s.P50, s.P95, s.P99, s.Max)
	}
}
