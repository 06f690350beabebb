package cmd

import (
	"fmt"
	"io"
	"math"

	sim "github.com/mmc-sim/mmc-sim/sim"
	"github.com/mmc-sim/mmc-sim/sim/analytic"
)

func printAnalytical(w io.Writer, m analytic.Measures) {
	fmt.Fprintln(w, "=== Analytical Model ===")
	fmt.Fprintf(w, "P0 (all idle)        : %.4f\n", m.P0)
	fmt.Fprintf(w, "L  (in system)       : %.4f\n", m.L)
	fmt.Fprintf(w, "W  (time in system)  : %.4f\n", m.W)
	fmt.Fprintf(w, "Lq (in line)         : %.4f\n", m.Lq)
	fmt.Fprintf(w, "Wq (time in line)    : %.4f\n", m.Wq)
	fmt.Fprintf(w, "Rho (utilization)    : %.4f\n", m.Rho)
	fmt.Fprintf(w, "P(wait)              : %.4f\n", m.PWait)
}

// printComparison lays simulated and analytical measures side by side with
// the relative error of the simulation.
func printComparison(w io.Writer, d sim.DerivedMeasures, m analytic.Measures) {
	fmt.Fprintln(w, "=== Simulated vs Analytical ===")
	fmt.Fprintf(w, "%-8s %12s %12s %10s\n", "measure", "simulated", "analytical", "rel.err")
	rows := []struct {
		name       string
		sim, exact float64
	}{
		{"P0", d.P0, m.P0},
		{"W", d.W, m.W},
		{"Wq", d.Wq, m.Wq},
		{"Rho", d.Rho, m.Rho},
		{"P(wait)", d.PWait, m.PWait},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-8s %12.4f %12.4f %9.2f%%\n", r.name, r.sim, r.exact, 100*relErr(r.sim, r.exact))
	}
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}
