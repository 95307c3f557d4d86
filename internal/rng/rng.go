// Package rng provides the seeded pseudo-random generator shared by every
// shuffle in the quiz. Daily challenges depend on all callers using the
// same mixing function, so nothing in the module should shuffle with
// math/rand directly.
package rng

import (
	"log/slog"
	"time"
)

// Generator returns successive floats in [0, 1).
type Generator func() float64

// NewSeededRNG returns a generator whose state advances on every call.
// Two generators created from the same seed yield the same sequence.
func NewSeededRNG(seed int64) Generator {
	state := uint32(seed)
	return func() float64 {
		state += 0x6D2B79F5
		t := state
		t = (t ^ (t >> 15)) * (t | 1)
		t ^= t + (t^(t>>7))*(t|61)
		return float64(t^(t>>14)) / 4294967296.0
	}
}

// SeededRNG returns the first value of the generator for seed.
func SeededRNG(seed int64) float64 {
	return NewSeededRNG(seed)()
}

// Shuffle returns a Fisher-Yates permutation of data driven by seed.
// The input slice is left untouched. A nil slice yields an empty result.
func Shuffle[T any](data []T, seed int64) []T {
	if data == nil {
		slog.Debug("shuffle called with nil slice")
		return []T{}
	}
	out := make([]T, len(data))
	copy(out, data)

	next := NewSeededRNG(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := int(next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DailySeed derives a seed from the calendar date of now in its own
// location. Every call within one local day returns the same value.
func DailySeed(now time.Time) int64 {
	y, m, d := now.Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}

// WallClockSeed returns a seed for shuffles that must not repeat.
func WallClockSeed() int64 {
	return time.Now().UnixNano()
}
