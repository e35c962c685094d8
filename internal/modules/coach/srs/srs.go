// Package srs holds the spaced-repetition interval model.
package srs

import "time"

const (
	// GrowthFactor multiplies the interval after a successful review.
	GrowthFactor = 2
	// MaxIntervalDays bounds interval growth.
	MaxIntervalDays = 30
	// InitialIntervalDays is the interval of a freshly queued item and the
	// value every failure resets to.
	InitialIntervalDays = 1
)

// NextInterval returns the interval that follows current after one review.
// Non-positive intervals are treated as InitialIntervalDays.
func NextInterval(success bool, current int) int {
	if !success {
		return InitialIntervalDays
	}
	if current < InitialIntervalDays {
		current = InitialIntervalDays
	}
	next := current * GrowthFactor
	if next > MaxIntervalDays {
		next = MaxIntervalDays
	}
	return next
}

// Advance applies one review outcome and returns the new interval and the
// moment the item becomes due again.
func Advance(success bool, currentIntervalDays int, now time.Time) (int, time.Time) {
	next := NextInterval(success, currentIntervalDays)
	return next, now.Add(time.Duration(next) * 24 * time.Hour)
}
