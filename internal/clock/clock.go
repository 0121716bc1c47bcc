// Package clock abstracts wall-clock access so schedules and run timestamps
// can be pinned in tests.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System reads the real clock in UTC.
type System struct{}

// NewSystem creates a System clock.
func NewSystem() *System {
	return &System{}
}

// Now returns the current UTC time.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always reports the same instant. Tests use it to pin run timestamps.
type Fixed struct {
	T time.Time
}

// Now returns the pinned instant.
func (f Fixed) Now() time.Time {
	return f.T
}
