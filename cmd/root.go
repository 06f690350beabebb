package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	sim "github.com/mmc-sim/mmc-sim/sim"
	"github.com/mmc-sim/mmc-sim/sim/analytic"
	"github.com/mmc-sim/mmc-sim/sim/trace"
)

var (
	// CLI flags for the queueing model
	paramsPath       string  // Parameter file (.txt with 4 values, or .yaml)
	lambda           float64 // Arrival rate
	mu               float64 // Per-server service rate
	servers          int     // Number of servers
	eventBudget      int     // Number of events to simulate
	seed             int64   // Seed for the arrival and service streams
	scheduleCapacity int     // Max pending events (0 = unbounded)
	strict           bool    // Check engine invariants after every step
	drain            bool    // Keep processing pending departures after the budget is spent
	logLevel         string  // Log verbosity level

	// CLI flags for outputs
	traceLevel   string // Event trace verbosity
	traceMax     int    // Max trace records kept
	traceOut     string // YAML file for the event trace
	waitTimesOut string // File for per-customer wait times
	promTextfile string // Prometheus textfile output
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "mmc-sim",
	Short: "Discrete-event simulator for M/M/c queues",
	Long: `mmc-sim simulates a queue with Poisson arrivals, M identical exponential
servers and a single FIFO waiting line, and compares the simulated measures
against the closed-form steady-state solution.`,
	SilenceUsage: true,
}

// runCmd executes the simulation using parameters from a file and/or CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation and compare it with the analytical model",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("unknown trace level %q (valid: none, events)", traceLevel)
		}

		params, err := resolveParams(cmd)
		if err != nil {
			return err
		}
		return runSimulation(cmd.OutOrStdout(), params)
	},
}

// analyzeCmd prints only the closed-form measures
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate the analytical M/M/c steady-state measures",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		params, err := resolveParams(cmd)
		if err != nil {
			return err
		}
		cfg := params.Config
		m, err := analytic.Solve(cfg.Lambda, cfg.Mu, cfg.Servers)
		if err != nil {
			return err
		}
		printAnalytical(cmd.OutOrStdout(), m)
		return nil
	},
}

func setupLogging() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logrus.SetLevel(level)
	return nil
}

// resolveParams loads the parameter file, if any, and lets explicitly set
// flags override its values.
func resolveParams(cmd *cobra.Command) (Params, error) {
	var params Params
	if paramsPath != "" {
		loaded, err := LoadParams(paramsPath)
		if err != nil {
			return Params{}, err
		}
		logrus.Infof("Loaded parameters from %s", paramsPath)
		params = loaded
	} else {
		params.Config = sim.NewConfig(lambda, mu, servers, eventBudget)
	}

	flags := cmd.Flags()
	if flags.Changed("lambda") {
		params.Config.Lambda = lambda
	}
	if flags.Changed("mu") {
		params.Config.Mu = mu
	}
	if flags.Changed("servers") {
		params.Config.Servers = servers
	}
	if flags.Changed("events") {
		params.Config.EventBudget = eventBudget
	}
	if flags.Changed("schedule-capacity") || params.Config.ScheduleCapacity == 0 {
		params.Config.ScheduleCapacity = scheduleCapacity
	}
	if flags.Changed("seed") || params.Seed == nil {
		s := seed
		params.Seed = &s
	}
	params.Config.StrictInvariants = strict

	if err := params.Config.Validate(); err != nil {
		return Params{}, err
	}
	return params, nil
}

func runSimulation(out io.Writer, params Params) error {
	cfg := params.Config
	logrus.Infof("Starting simulation: lambda=%g mu=%g servers=%d events=%d seed=%d",
		cfg.Lambda, cfg.Mu, cfg.Servers, cfg.EventBudget, *params.Seed)

	startTime := time.Now()

	engine, err := sim.NewSeededEngine(cfg, sim.NewSimulationKey(*params.Seed))
	if err != nil {
		return err
	}
	if traceLevel != "" && trace.TraceLevel(traceLevel) != trace.TraceLevelNone {
		engine.Trace = trace.NewSimulationTrace(trace.TraceConfig{
			Level:      trace.TraceLevel(traceLevel),
			MaxRecords: traceMax,
		})
	}

	res, err := engine.Run()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	if drain {
		if res, err = engine.Drain(); err != nil {
			return fmt.Errorf("draining schedule: %w", err)
		}
	}
	logrus.Infof("Simulation took %v", time.Since(startTime))

	var exact *analytic.Measures
	if m, err := analytic.Solve(cfg.Lambda, cfg.Mu, cfg.Servers); err != nil {
		logrus.Warnf("Skipping analytical model: %v", err)
	} else {
		exact = &m
		printAnalytical(out, m)
		fmt.Fprintln(out)
	}

	res.Print(out)

	var derived *sim.DerivedMeasures
	if d, err := res.Derived(); err == nil {
		derived = &d
		if exact != nil {
			fmt.Fprintln(out)
			printComparison(out, d, *exact)
		}
	} else if !errors.Is(err, sim.ErrNoCustomers) && !errors.Is(err, sim.ErrZeroClock) {
		return err
	}

	if engine.Trace != nil {
		s := trace.Summarize(engine.Trace)
		logrus.Infof("Trace: %d events (%d arrivals, %d queued, %d departures), max line %d, %d dropped",
			s.TotalEvents, s.Arrivals, s.QueuedArrivals, s.Departures, s.MaxQueueLen, s.DroppedRecords)
		if traceOut != "" {
			if err := writeTrace(traceOut, engine.Trace); err != nil {
				return err
			}
		}
	}
	if waitTimesOut != "" {
		if err := res.SaveWaitTimes(waitTimesOut); err != nil {
			return err
		}
	}
	if promTextfile != "" {
		if err := writePrometheusTextfile(promTextfile, res, derived, exact); err != nil {
			return fmt.Errorf("writing prometheus textfile: %w", err)
		}
		logrus.Infof("Wrote Prometheus metrics to %s", promTextfile)
	}

	logrus.Info("Simulation complete.")
	return nil
}

func writeTrace(path string, st *trace.SimulationTrace) error {
	data, err := yaml.Marshal(st.Events)
	if err != nil {
		return fmt.Errorf("marshalling trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVarP(&paramsPath, "params", "p", "", "Parameter file: four values (lambda mu servers events) or a .yaml file")

	// Model parameters
	rootCmd.PersistentFlags().Float64Var(&lambda, "lambda", 2.0, "Arrival rate")
	rootCmd.PersistentFlags().Float64Var(&mu, "mu", 3.0, "Service rate per server")
	rootCmd.PersistentFlags().IntVar(&servers, "servers", 2, "Number of servers")
	rootCmd.PersistentFlags().IntVar(&eventBudget, "events", 5000, "Number of events to simulate")

	// Engine configs
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for arrival and service draws")
	runCmd.Flags().IntVar(&scheduleCapacity, "schedule-capacity", 0, "Max pending events in the schedule (0 = unbounded)")
	runCmd.Flags().BoolVar(&strict, "strict", false, "Check engine invariants after every event")
	runCmd.Flags().BoolVar(&drain, "drain", false, "After the budget is spent, process pending events until every customer departs")

	// Outputs
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Event trace level (none, events)")
	runCmd.Flags().IntVar(&traceMax, "trace-max", 0, "Max trace records kept (0 = unlimited)")
	runCmd.Flags().StringVar(&traceOut, "trace-out", "", "Write the event trace as YAML to this file")
	runCmd.Flags().StringVar(&waitTimesOut, "wait-times-out", "", "Write per-customer wait times to this file")
	runCmd.Flags().StringVar(&promTextfile, "prom-textfile", "", "Write run metrics in Prometheus text format to this file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(analyzeCmd)
}
