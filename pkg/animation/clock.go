package animation

import "time"

// Clock provides time for springs and tickers. The default implementation
// reads the system clock. Tests install a fake via SetClock so paging
// animations can be stepped deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var clock Clock = systemClock{}

// SetClock replaces the animation clock and returns the previous one so
// tests can restore it during cleanup. Passing nil restores the system clock.
func SetClock(c Clock) Clock {
	prev := clock
	if c == nil {
		c = systemClock{}
	}
	clock = c
	return prev
}

// Now returns the current time from the active clock.
func Now() time.Time { return clock.Now() }
