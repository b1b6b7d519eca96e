package clock

import "time"

// Clock is an interface for time operations to enable testability.
type Clock interface {
	Now() time.Time
}

// RealClock is the production implementation using actual system time.
type RealClock struct{}

// NewRealClock creates a new RealClock.
func NewRealClock() Clock {
	return &RealClock{}
}

// Now returns the current system time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock is a test implementation that allows controlling the current time.
// All times are normalized to UTC so comparisons against stored
// scheduling timestamps behave the same as in production.
type FakeClock struct {
	current time.Time
}

// NewFakeClock creates a new FakeClock starting at the given time.
func NewFakeClock(startTime time.Time) *FakeClock {
	return &FakeClock{current: startTime.UTC()}
}

// Now returns the fake current time.
func (f *FakeClock) Now() time.Time {
	return f.current
}

// Set sets the fake current time.
func (f *FakeClock) Set(t time.Time) {
	f.current = t.UTC()
}

// Advance advances the fake clock by the given duration.
func (f *FakeClock) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}
