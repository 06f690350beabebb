// Package analytic evaluates the closed-form steady-state measures of an
// M/M/c queue, for comparison against simulated runs.
package analytic

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParams is returned for non-positive rates or server counts.
	ErrInvalidParams = errors.New("invalid queueing parameters")
	// ErrUnstable is returned when servers*mu <= lambda; no steady state exists.
	ErrUnstable = errors.New("system is unstable: servers*mu must exceed lambda")
)

// Measures are the steady-state quantities of an M/M/c queue.
type Measures struct {
	P0  float64 // probability that every server is idle
	L   float64 // mean number of customers in the system
	W   float64 // mean time in system
	Lq  float64 // mean number of customers in line
	Wq  float64 // mean time in line
	Rho float64 // server utilization λ/(Mμ)
	// PWait is the Erlang C probability that an arrival has to wait.
	PWait float64
}

// Solve computes the steady-state measures for arrival rate lambda, service
// rate mu per server and the given number of servers.
func Solve(lambda, mu float64, servers int) (Measures, error) {
	if !(lambda > 0) || !(mu > 0) || servers <= 0 {
		return Measures{}, fmt.Errorf("%w: lambda=%v mu=%v servers=%d", ErrInvalidParams, lambda, mu, servers)
	}
	m := float64(servers)
	if m*mu <= lambda {
		return Measures{}, fmt.Errorf("%w (servers*mu=%v, lambda=%v)", ErrUnstable, m*mu, lambda)
	}

	a := lambda / mu // offered load
	rho := a / m
	pWait := ErlangC(a, servers)

	// Lq = C(M, a) · ρ/(1-ρ)
	lq := pWait * rho / (1 - rho)
	l := lq + a

	return Measures{
		P0:    P0(lambda, mu, servers),
		L:     l,
		W:     l / lambda,
		Lq:    lq,
		Wq:    lq / lambda,
		Rho:   rho,
		PWait: pWait,
	}, nil
}

// ErlangC is the probability that an arrival waits, for offered load a on
// the given number of servers. It goes through the Erlang B recursion
//
//	B(0) = 1,  B(k) = a·B(k-1) / (k + a·B(k-1))
//
// which stays finite for any server count, unlike a^M/M!.
// The caller must ensure a < servers.
func ErlangC(a float64, servers int) float64 {
	b := 1.0
	for k := 1; k <= servers; k++ {
		b = a * b / (float64(k) + a*b)
	}
	m := float64(servers)
	return m * b / (m - a*(1-b))
}

// P0 is the probability of an empty system:
//
//	1 / ( Σ_{i=0}^{M-1} a^i/i!  +  a^M/M! · Mμ/(Mμ-λ) ),  a = λ/μ
//
// The caller must ensure servers*mu > lambda.
func P0(lambda, mu float64, servers int) float64 {
	a := lambda / mu
	m := float64(servers)
	sum := 0.0
	term := 1.0 // a^i / i!
	for i := 0; i < servers; i++ {
		sum += term
		term *= a / float64(i+1)
	}
	// term is now a^M / M!
	sum += term * (m * mu / (m*mu - lambda))
	return 1 / sum
}
