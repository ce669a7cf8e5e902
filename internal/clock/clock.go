// Package clock abstracts time for the timer engine. Production code uses
// Real, tests inject Fake for deterministic behavior.
package clock

import "time"

// Clock supplies the current instant and a one-shot scheduling primitive.
//
// Real readings carry Go's monotonic clock, so differences between two
// readings are immune to wall-clock changes (DST, NTP steps, manual edits).
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for the duration to elapse and then calls f in its own
	// goroutine. The returned Timer can cancel the call.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer represents a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the Timer from firing. It returns false if the timer has
	// already expired or been stopped.
	Stop() bool
}

// Real implements Clock with the standard time package.
type Real struct{}

// NewReal creates a Real clock.
func NewReal() Real {
	return Real{}
}

// Now implements Clock.
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc implements Clock.
func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
