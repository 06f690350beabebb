package sim

import (
	"fmt"
	"math"
)

// Config groups the four model parameters plus engine tuning knobs.
type Config struct {
	Lambda           float64 // arrival rate λ (customers per unit time, must be > 0)
	Mu               float64 // per-server service rate μ (must be > 0)
	Servers          int     // number of identical servers M (must be > 0)
	EventBudget      int     // events to process before stopping (must be > 0)
	ScheduleCapacity int     // max pending events (0 = unbounded, default)
	StrictInvariants bool    // check server/line invariants after every step
}

// NewConfig builds a Config from the four model parameters with an unbounded schedule.
func NewConfig(lambda, mu float64, servers, eventBudget int) Config {
	return Config{
		Lambda:      lambda,
		Mu:          mu,
		Servers:     servers,
		EventBudget: eventBudget,
	}
}

// Validate reports the first parameter that is out of range.
// It does not check stability (Servers*Mu > Lambda): the engine runs
// unstable systems too, with an ever-growing waiting line.
func (c Config) Validate() error {
	if !(c.Lambda > 0) || math.IsInf(c.Lambda, 0) {
		return fmt.Errorf("%w: lambda must be a positive finite number, got %v", ErrInvalidConfig, c.Lambda)
	}
	if !(c.Mu > 0) || math.IsInf(c.Mu, 0) {
		return fmt.Errorf("%w: mu must be a positive finite number, got %v", ErrInvalidConfig, c.Mu)
	}
	if c.Servers <= 0 {
		return fmt.Errorf("%w: servers must be > 0, got %d", ErrInvalidConfig, c.Servers)
	}
	if c.EventBudget <= 0 {
		return fmt.Errorf("%w: event budget must be > 0, got %d", ErrInvalidConfig, c.EventBudget)
	}
	if c.ScheduleCapacity < 0 {
		return fmt.Errorf("%w: schedule capacity must be >= 0, got %d", ErrInvalidConfig, c.ScheduleCapacity)
	}
	if c.ScheduleCapacity > 0 && c.ScheduleCapacity < c.Servers+2 {
		return fmt.Errorf("%w: schedule capacity %d cannot hold %d servers plus lookahead (need >= %d)",
			ErrInvalidConfig, c.ScheduleCapacity, c.Servers, c.Servers+2)
	}
	return nil
}

// Stable reports whether aggregate service capacity exceeds the arrival rate.
func (c Config) Stable() bool {
	return float64(c.Servers)*c.Mu > c.Lambda
}
