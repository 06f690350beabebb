package sim

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// SimulationKey is the master seed of a run. Engines built from equal keys
// and equal Configs produce identical Results.
type SimulationKey int64

// NewSimulationKey wraps a seed.
func NewSimulationKey(seed int64) SimulationKey { return SimulationKey(seed) }

// Random stream names. The arrival stream is seeded with the key itself,
// every other stream with the key XOR the FNV-1a hash of its name.
const (
	SubsystemArrival = "arrival"
	SubsystemService = "service"
)

// RandomSource yields uniform values in [0, 1). *rand.Rand satisfies it;
// tests substitute scripted sources.
type RandomSource interface {
	Float64() float64
}

// ExpInterval draws an exponentially distributed interval with mean 1/rate.
// Zero draws are resampled so the logarithm stays finite.
func ExpInterval(src RandomSource, rate float64) float64 {
	u := src.Float64()
	for u == 0 {
		u = src.Float64()
	}
	return -math.Log(u) / rate
}

// PartitionedRNG hands out one independent stream per subsystem, so extra
// service draws never shift the arrival sequence and vice versa.
// Not safe for concurrent use.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, subsystems: map[string]*rand.Rand{}}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	stream, ok := p.subsystems[name]
	if !ok {
		stream = rand.New(rand.NewSource(p.seedFor(name)))
		p.subsystems[name] = stream
	}
	return stream
}

// Key returns the master seed.
func (p *PartitionedRNG) Key() SimulationKey { return p.key }

func (p *PartitionedRNG) seedFor(name string) int64 {
	if name == SubsystemArrival {
		return int64(p.key)
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(p.key) ^ int64(h.Sum64())
}
