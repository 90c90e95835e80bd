// Package rng provides the seedable random source shared by the patch
// transformer, the placement planner and the scene generator.
package rng

import (
	"math/rand/v2"
)

// Source is the subset of *rand.Rand the generator consumes. Tests substitute
// scripted implementations to force flips, angles and positions.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// New returns a PCG-backed source for seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// ForScene returns the source owned by scene index of a run seeded with seed.
// Scene sources depend only on (seed, index), so output does not change with
// the number of workers or the order scenes finish in.
func ForScene(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, splitmix(uint64(index)+1)))
}

// Uniform returns a value drawn uniformly from [lo, hi).
func Uniform(r Source, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// IntRange returns a value drawn uniformly from the inclusive range [lo, hi].
func IntRange(r Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// splitmix scrambles the scene index so neighbouring scenes get unrelated streams.
func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
