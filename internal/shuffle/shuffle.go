// internal/shuffle/shuffle.go
//
// Permutations for grid layouts.
//   - Shuffle: non-reproducible order (fresh shuffle button).
//   - Seeded:  reproducible order for a given seed (initial layout keyed by puzzle id).
//
// Neither function touches its input; both return a new slice.

package shuffle

import (
	"math/rand/v2"
)

// Shuffle returns a randomly permuted copy of in.
func Shuffle[T any](in []T) []T {
	out := clone(in)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Seeded returns a permuted copy of in; the same (in, seed) pair always
// yields the same order.
func Seeded[T any](in []T, seed uint32) []T {
	out := clone(in)
	next := splitmix32(seed)
	// Fisher–Yates, walking down from the end.
	for i := len(out) - 1; i > 0; i-- {
		j := int(next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// splitmix32 returns a generator of floats in [0, 1) seeded with a.
func splitmix32(a uint32) func() float64 {
	return func() float64 {
		a += 0x9e3779b9
		t := a ^ (a >> 16)
		t *= 0x21f0aaad
		t ^= t >> 15
		t *= 0x735a2d97
		t ^= t >> 15
		return float64(t) / 4294967296
	}
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
