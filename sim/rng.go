package sim

import (
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical results.
type SimulationKey int64

// NewSimulationKey derives a SimulationKey from a seed string.
// The string is hashed with FNV-1a so that any text ("test-seed-123") is a valid seed.
func NewSimulationKey(seed string) SimulationKey {
	return SimulationKey(fnv1a64(seed))
}

// EntropySeed returns a wall-clock derived seed string for runs without an explicit seed.
// The result is echoed in the run metadata so the run can be replayed.
func EntropySeed() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// === RandomSource ===

// RandomSource is the single stream of uniform draws consumed by the engine.
// Every Bernoulli trial and every weighted sample consumes exactly one Uniform draw,
// so the order of calls is part of the reproducibility contract.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type RandomSource struct {
	seed string
	key  SimulationKey
	rng  *rand.Rand
}

// NewRandomSource creates a RandomSource from a seed string.
// An empty seed selects EntropySeed(), making the run non-reproducible unless
// the caller records Seed().
func NewRandomSource(seed string) *RandomSource {
	if seed == "" {
		seed = EntropySeed()
	}
	key := NewSimulationKey(seed)
	return &RandomSource{
		seed: seed,
		key:  key,
		rng:  rand.New(rand.NewSource(int64(key))),
	}
}

// Seed returns the seed string actually used, including a generated one.
func (r *RandomSource) Seed() string {
	return r.seed
}

// Key returns the SimulationKey derived from the seed.
func (r *RandomSource) Key() SimulationKey {
	return r.key
}

// Uniform returns a float in [0,1).
func (r *RandomSource) Uniform() float64 {
	return r.rng.Float64()
}

// Bernoulli returns true with probability p using a single Uniform draw.
func (r *RandomSource) Bernoulli(p float64) bool {
	return r.Uniform() < p
}

// Weighted is one outcome of a discrete distribution.
type Weighted[T any] struct {
	Value       T
	Probability float64
}

// Sample draws one Uniform value and returns the first item whose cumulative
// probability (in slice order) reaches it. If floating-point drift leaves the draw
// above the final cumulative sum, the last item is returned. items must be non-empty.
func Sample[T any](r *RandomSource, items []Weighted[T]) T {
	u := r.Uniform()
	cumulative := 0.0
	for _, item := range items {
		cumulative += item.Probability
		if u <= cumulative {
			return item.Value
		}
	}
	return items[len(items)-1].Value
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
