// Package clock abstracts time so snapshot timestamps are testable.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant unless advanced.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

// Advance moves the fixed clock forward.
func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}
