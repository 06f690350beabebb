package cmd

import (
	"github.com/prometheus/client_golang/prometheus"

	sim "github.com/mmc-sim/mmc-sim/sim"
	"github.com/mmc-sim/mmc-sim/sim/analytic"
)

// runGauges are the per-run values exported in Prometheus text format.
type runGauges struct {
	customers   prometheus.Gauge
	served      prometheus.Gauge
	waited      prometheus.Gauge
	clock       prometheus.Gauge
	maxQueueLen prometheus.Gauge
	measures    *prometheus.GaugeVec // label source = simulated|analytical, measure = name
}

func newRunGauges(reg prometheus.Registerer, runID string) *runGauges {
	labels := prometheus.Labels{"run_id": runID}
	g := &runGauges{
		customers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mmc_customers_total",
			Help:        "Customers that arrived during the run",
			ConstLabels: labels,
		}),
		served: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mmc_customers_served_total",
			Help:        "Customers that completed service during the run",
			ConstLabels: labels,
		}),
		waited: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mmc_customers_waited_total",
			Help:        "Customers that spent a nonzero time in line",
			ConstLabels: labels,
		}),
		clock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mmc_simulation_clock",
			Help:        "Simulation time at the end of the run",
			ConstLabels: labels,
		}),
		maxQueueLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "mmc_max_queue_length",
			Help:        "Longest waiting line observed",
			ConstLabels: labels,
		}),
		measures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "mmc_measure",
			Help:        "Steady-state measure (P0, W, Wq, rho, pwait) by source",
			ConstLabels: labels,
		}, []string{"source", "measure"}),
	}
	reg.MustRegister(g.customers, g.served, g.waited, g.clock, g.maxQueueLen, g.measures)
	return g
}

func (g *runGauges) update(res *sim.Results, derived *sim.DerivedMeasures, exact *analytic.Measures) {
	g.customers.Set(float64(res.TotalCustomers))
	g.served.Set(float64(res.CustomersServed))
	g.waited.Set(float64(res.CustomersWaited))
	g.clock.Set(res.Clock)
	g.maxQueueLen.Set(float64(res.MaxQueueLen))

	if derived != nil {
		g.setMeasures("simulated", derived.P0, derived.W, derived.Wq, derived.Rho, derived.PWait)
	}
	if exact != nil {
		g.setMeasures("analytical", exact.P0, exact.W, exact.Wq, exact.Rho, exact.PWait)
	}
}

func (g *runGauges) setMeasures(source string, p0, w, wq, rho, pwait float64) {
	g.measures.WithLabelValues(source, "p0").Set(p0)
	g.measures.WithLabelValues(source, "w").Set(w)
	g.measures.WithLabelValues(source, "wq").Set(wq)
	g.measures.WithLabelValues(source, "rho").Set(rho)
	g.measures.WithLabelValues(source, "pwait").Set(pwait)
}

// writePrometheusTextfile writes the run's gauges to path in the text
// exposition format read by node_exporter's textfile collector.
func writePrometheusTextfile(path string, res *sim.Results, derived *sim.DerivedMeasures, exact *analytic.Measures) error {
	reg := prometheus.NewRegistry()
	newRunGauges(reg, res.RunID).update(res, derived, exact)
	return prometheus.WriteToTextfile(path, reg)
}
