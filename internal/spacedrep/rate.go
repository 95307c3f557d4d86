// Package spacedrep schedules country reviews. Each country carries a
// learning rate in days that grows on correct answers and shrinks on
// misses; a country is due once that many days have passed since it was
// last checked.
package spacedrep

import (
	"math"
	"time"

	"github.com/abhisek/geoquiz/internal/store"
)

const (
	// DefaultInterval is the learning rate of a country never reviewed.
	DefaultInterval = 2.0
	// CorrectMultiplier scales the rate after a correct answer.
	CorrectMultiplier = 1.6
	// IncorrectDivisor divides the rate after a miss.
	IncorrectDivisor = 2.0
	MinInterval      = 1.0
	MaxInterval      = 128.0
)

// UpdateLearningRate returns the next rate. A nil or non-positive current
// rate counts as DefaultInterval.
func UpdateLearningRate(current *float64, correct bool) float64 {
	rate := DefaultInterval
	if current != nil && *current > 0 {
		rate = *current
	}
	if correct {
		return math.Min(rate*CorrectMultiplier, MaxInterval)
	}
	return math.Max(rate/IncorrectDivisor, MinInterval)
}

// Apply records an attempt made at now: lastChecked becomes the local
// date of now and the rate is updated.
func Apply(rec store.CountryLearningRecord, correct bool, now time.Time) store.CountryLearningRecord {
	today := now.Format(store.DateLayout)
	rate := UpdateLearningRate(rec.LearningRate, correct)
	return store.CountryLearningRecord{
		LastChecked:  &today,
		LearningRate: &rate,
	}
}
