// sim/engine.go
package sim

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/mmc-sim/mmc-sim/sim/trace"
)

// State is the lifecycle phase of an Engine.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Engine is the core object that holds simulation time, server occupancy,
// the two queueing structures and the running accumulators.
// An Engine is single-use: once finished it cannot be restarted.
type Engine struct {
	cfg Config

	// Schedule holds pending arrivals and in-service departures.
	Schedule *EventSchedule
	// WaitQ aka the waiting line in front of the servers.
	WaitQ *WaitQueue
	// Trace, when non-nil and enabled, receives one record per processed event.
	Trace *trace.SimulationTrace

	arrivals RandomSource
	service  RandomSource

	state           State
	runID           string
	clock           float64
	available       int
	eventsProcessed int
	eventsDrained   int
	nextCustomerID  int64

	// lastArrival is the time of the most recently scheduled arrival. New
	// arrivals are spaced from it rather than from the clock, which departures
	// may have pushed ahead.
	lastArrival float64
	// idleSince is the time the servers last became all idle.
	idleSince float64

	totalCustomers   int
	departures       int
	customersWaited  int
	totalWaitTime    float64
	totalServiceTime float64
	totalIdleTime    float64
	maxQueueLen      int
	waitTimes        []float64
}

// NewEngine builds an engine from cfg, drawing inter-arrival gaps from
// arrivals and service durations from service.
func NewEngine(cfg Config, arrivals, service RandomSource) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if arrivals == nil || service == nil {
		return nil, fmt.Errorf("%w: random sources must not be nil", ErrInvalidConfig)
	}
	return &Engine{
		cfg:       cfg,
		Schedule:  NewEventSchedule(cfg.ScheduleCapacity),
		WaitQ:     &WaitQueue{},
		arrivals:  arrivals,
		service:   service,
		state:     StateIdle,
		runID:     xid.New().String(),
		available: cfg.Servers,
		waitTimes: make([]float64, 0, min(cfg.EventBudget/2+1, 1<<16)),
	}, nil
}

// NewSeededEngine builds an engine whose arrival and service streams are
// derived from key, so equal keys reproduce equal runs.
func NewSeededEngine(cfg Config, key SimulationKey) (*Engine, error) {
	rng := NewPartitionedRNG(key)
	return NewEngine(cfg, rng.ForSubsystem(SubsystemArrival), rng.ForSubsystem(SubsystemService))
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// State returns the current lifecycle phase.
func (e *Engine) State() State { return e.state }

// RunID returns the unique identifier stamped on this engine's Results.
func (e *Engine) RunID() string { return e.runID }

// Clock returns the current simulation time.
func (e *Engine) Clock() float64 { return e.clock }

// AvailableServers returns the number of idle servers.
func (e *Engine) AvailableServers() int { return e.available }

// BusyServers returns the number of servers currently serving a customer.
func (e *Engine) BusyServers() int { return e.cfg.Servers - e.available }

// QueueLen returns the number of customers in the waiting line.
func (e *Engine) QueueLen() int { return e.WaitQ.Len() }

// ScheduleLen returns the number of pending events.
func (e *Engine) ScheduleLen() int { return e.Schedule.Len() }

// EventsProcessed returns how many events have been extracted and handled.
func (e *Engine) EventsProcessed() int { return e.eventsProcessed }

// start seeds the schedule with the first arrival.
func (e *Engine) start() error {
	e.state = StateRunning
	logrus.Infof("[run %s] starting: lambda=%g mu=%g servers=%d budget=%d",
		e.runID, e.cfg.Lambda, e.cfg.Mu, e.cfg.Servers, e.cfg.EventBudget)
	if !e.cfg.Stable() {
		logrus.Warnf("[run %s] unstable system: servers*mu=%g <= lambda=%g, waiting line will grow without bound",
			e.runID, float64(e.cfg.Servers)*e.cfg.Mu, e.cfg.Lambda)
	}
	return e.scheduleArrival()
}

// Run processes events until the schedule empties or the event budget is
// reached, then returns the accumulated results.
func (e *Engine) Run() (*Results, error) {
	if e.state == StateFinished {
		return nil, ErrEngineFinished
	}
	for {
		more, err := e.Step()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return e.Results(), nil
}

// Step processes a single event. It returns false once the engine has
// terminated, either because the event budget is spent or nothing is pending.
func (e *Engine) Step() (bool, error) {
	switch e.state {
	case StateFinished:
		return false, ErrEngineFinished
	case StateIdle:
		if err := e.start(); err != nil {
			return false, err
		}
	}

	if e.eventsProcessed >= e.cfg.EventBudget || e.Schedule.IsEmpty() {
		e.finish()
		return false, nil
	}

	// get the next event to be simulated
	ev, err := e.Schedule.ExtractMin()
	if err != nil {
		return false, err
	}
	// advance the clock
	e.clock = ev.Timestamp()
	logrus.Tracef("[t=%.6f] executing %s", e.clock, ev)

	queued := false
	switch ev.Kind {
	case EventArrival:
		queued, err = e.processArrival(ev)
	case EventDeparture:
		err = e.processDeparture(ev)
	default:
		err = fmt.Errorf("event %s has unknown kind", ev)
	}
	if err != nil {
		return false, err
	}

	// keep the schedule populated with lookahead arrivals
	if e.Schedule.Len() <= e.cfg.Servers+1 && e.eventsProcessed < e.cfg.EventBudget {
		if err := e.scheduleArrival(); err != nil {
			return false, err
		}
	}
	e.eventsProcessed++

	e.afterEvent(ev, e.eventsProcessed, queued)
	if err := e.maybeCheckInvariants(); err != nil {
		return false, err
	}

	if e.eventsProcessed >= e.cfg.EventBudget || e.Schedule.IsEmpty() {
		e.finish()
		return false, nil
	}
	return true, nil
}

// Drain processes every event still pending after the run finished, without
// injecting new arrivals, so every admitted customer departs. Drained events
// do not count against the event budget.
func (e *Engine) Drain() (*Results, error) {
	if e.state != StateFinished {
		return nil, fmt.Errorf("drain requires a finished engine, state is %s", e.state)
	}
	for !e.Schedule.IsEmpty() {
		ev, err := e.Schedule.ExtractMin()
		if err != nil {
			return nil, err
		}
		e.clock = ev.Timestamp()
		queued := false
		switch ev.Kind {
		case EventArrival:
			queued, err = e.processArrival(ev)
		case EventDeparture:
			err = e.processDeparture(ev)
		default:
			err = fmt.Errorf("event %s has unknown kind", ev)
		}
		if err != nil {
			return nil, err
		}
		e.eventsDrained++
		e.afterEvent(ev, e.eventsProcessed+e.eventsDrained, queued)
		if err := e.maybeCheckInvariants(); err != nil {
			return nil, err
		}
	}
	e.foldTrailingIdle()
	logrus.Infof("[run %s] drained %d events, at t=%.6f: %d customers, %d departures",
		e.runID, e.eventsDrained, e.clock, e.totalCustomers, e.departures)
	return e.Results(), nil
}

// afterEvent tracks the longest line and records the handled event as
// number seq in the trace.
func (e *Engine) afterEvent(ev *Event, seq int, queued bool) {
	if q := e.WaitQ.Len(); q > e.maxQueueLen {
		e.maxQueueLen = q
	}
	e.Trace.RecordEvent(trace.EventRecord{
		Seq:        seq,
		Clock:      e.clock,
		Kind:       ev.Kind.String(),
		CustomerID: ev.ID,
		QueueLen:   e.WaitQ.Len(),
		Available:  e.available,
		Queued:     queued,
	})
}

func (e *Engine) maybeCheckInvariants() error {
	if e.cfg.StrictInvariants || logrus.IsLevelEnabled(logrus.DebugLevel) {
		return e.CheckInvariants()
	}
	return nil
}

func (e *Engine) finish() {
	e.foldTrailingIdle()
	e.state = StateFinished
	logrus.Infof("[run %s] finished at t=%.6f after %d events (%d pending, %d waiting)",
		e.runID, e.clock, e.eventsProcessed, e.Schedule.Len(), e.WaitQ.Len())
}

// foldTrailingIdle adds the idle span that is still open at the end of a run.
func (e *Engine) foldTrailingIdle() {
	if e.available == e.cfg.Servers && e.clock > e.idleSince {
		e.totalIdleTime += e.clock - e.idleSince
		e.idleSince = e.clock
	}
}

// scheduleArrival creates the next customer one exponential gap after the
// previously scheduled arrival.
func (e *Engine) scheduleArrival() error {
	at := e.lastArrival + ExpInterval(e.arrivals, e.cfg.Lambda)
	e.nextCustomerID++
	ev := NewArrivalEvent(e.nextCustomerID, at)
	if err := e.Schedule.Insert(ev); err != nil {
		return fmt.Errorf("schedule arrival: %w", err)
	}
	e.lastArrival = at
	return nil
}

// processArrival admits the customer to a free server or queues it.
// Returns true if the customer had to wait in line.
func (e *Engine) processArrival(ev *Event) (bool, error) {
	e.totalCustomers++

	if e.available == e.cfg.Servers {
		e.totalIdleTime += e.clock - e.idleSince
	}

	if e.available == 0 {
		e.WaitQ.Enqueue(ev)
		logrus.Debugf("[t=%.6f] customer %d queued (line=%d)", e.clock, ev.ID, e.WaitQ.Len())
		return true, nil
	}

	e.waitTimes = append(e.waitTimes, 0)
	if err := e.beginService(ev); err != nil {
		return false, err
	}
	logrus.Debugf("[t=%.6f] customer %d served immediately, departs at %.6f", e.clock, ev.ID, ev.DepartureTime)
	return false, nil
}

// processDeparture frees the departing customer's server and hands it to the
// head of the waiting line, if any.
func (e *Engine) processDeparture(ev *Event) error {
	e.available++
	e.departures++
	logrus.Debugf("[t=%.6f] customer %d departs", e.clock, ev.ID)

	if !e.WaitQ.IsEmpty() {
		next, err := e.WaitQ.Dequeue()
		if err != nil {
			return err
		}
		wait := e.clock - next.ArrivalTime
		if wait > 0 {
			e.totalWaitTime += wait
			e.customersWaited++
		}
		e.waitTimes = append(e.waitTimes, wait)
		if err := e.beginService(next); err != nil {
			return err
		}
		logrus.Debugf("[t=%.6f] customer %d leaves line after %.6f, departs at %.6f",
			e.clock, next.ID, wait, next.DepartureTime)
	}

	if e.available == e.cfg.Servers {
		e.idleSince = e.clock
	}
	return nil
}

// beginService occupies a server for ev starting now and schedules its departure.
func (e *Engine) beginService(ev *Event) error {
	duration := ExpInterval(e.service, e.cfg.Mu)
	e.available--
	ev.AssignServer(e.clock, duration)
	e.totalServiceTime += duration
	if err := e.Schedule.Insert(ev); err != nil {
		return fmt.Errorf("schedule departure: %w", err)
	}
	return nil
}

// CheckInvariants verifies server occupancy bounds, the waiting-line rule and
// the schedule's heap property.
func (e *Engine) CheckInvariants() error {
	if e.available < 0 || e.available > e.cfg.Servers {
		return fmt.Errorf("available servers %d outside [0, %d]", e.available, e.cfg.Servers)
	}
	if e.available > 0 && !e.WaitQ.IsEmpty() {
		return fmt.Errorf("%d customers waiting while %d servers are free", e.WaitQ.Len(), e.available)
	}
	if busy := e.Schedule.CountKind(EventDeparture); busy != e.BusyServers() {
		return fmt.Errorf("%d departures pending but %d servers busy", busy, e.BusyServers())
	}
	return e.Schedule.Verify()
}

// Results snapshots the accumulators. Safe to call at any point; the idle
// time only includes the trailing idle span once the engine has finished.
func (e *Engine) Results() *Results {
	waits := make([]float64, len(e.waitTimes))
	copy(waits, e.waitTimes)
	return &Results{
		RunID:            e.runID,
		Servers:          e.cfg.Servers,
		TotalCustomers:   e.totalCustomers,
		CustomersServed:  e.departures,
		CustomersWaited:  e.customersWaited,
		TotalWaitTime:    e.totalWaitTime,
		TotalServiceTime: e.totalServiceTime,
		TotalIdleTime:    e.totalIdleTime,
		Clock:            e.clock,
		EventsProcessed:  e.eventsProcessed,
		MaxQueueLen:      e.maxQueueLen,
		WaitTimes:        waits,
	}
}
