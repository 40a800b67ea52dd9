package domain

import (
	"math"
	"time"
)

// Clock provides the current time. Implementations may be real (production)
// or deterministic (testing). The headless host measures frame deltas with
// it and the generic time plugin advances real time from it.
type Clock interface {
	// Now returns the current time. The returned time includes both wall clock
	// and monotonic readings when using RealClock.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time {
	return time.Now()
}

// SecondsToDuration converts a host-reported delta in seconds to a Duration.
// Negative, NaN and infinite values are rejected: ok is false and d is zero.
func SecondsToDuration(seconds float64) (d time.Duration, ok bool) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, false
	}
	if seconds >= math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64), true
	}
	return time.Duration(seconds * float64(time.Second)), true
}

// Ensure RealClock implements Clock at compile time.
var _ Clock = RealClock{}
