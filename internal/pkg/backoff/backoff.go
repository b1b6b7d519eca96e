// Package backoff provides delay strategies for retrying failed work.
//
// The returned delays are advisory scheduling metadata: callers persist
// "not before" timestamps computed from them rather than sleeping, so a
// poll loop can process a whole batch per tick and simply skip entries
// whose delay has not elapsed yet.
package backoff

import (
	"math"
	"time"
)

// DelayFunc returns the delay to apply after the given attempt number.
// Attempt numbering starts at 1 (the first failed attempt).
type DelayFunc func(attempt int) time.Duration

// Fixed returns a DelayFunc with the same delay for every attempt.
func Fixed(delay time.Duration) DelayFunc {
	return func(attempt int) time.Duration {
		return delay
	}
}

// Exponential returns a DelayFunc that doubles the delay on each attempt,
// capped at maxDelay: base, 2*base, 4*base, ... up to the cap.
func Exponential(base time.Duration, maxDelay time.Duration) DelayFunc {
	// Pre-compute the largest shift that cannot overflow int64.
	logBase := math.Floor(math.Log2(float64(base)))
	var maxShifts uint
	if logBase >= 62 {
		maxShifts = 0
	} else {
		maxShifts = 62 - uint(logBase)
	}

	return func(attempt int) time.Duration {
		if attempt <= 1 {
			return min(base, maxDelay)
		}

		n := min(uint(attempt-1), maxShifts)
		return min(base<<n, maxDelay)
	}
}
