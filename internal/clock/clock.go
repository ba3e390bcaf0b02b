// Package clock abstracts time so backup names and event timestamps are testable.
package clock

import (
	"sync"
	"time"
)

// Clock provides time operations.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using the actual system time.
type Real struct{}

// Now returns the current time.
func (Real) Now() time.Time {
	return time.Now()
}

// Fixed implements Clock with a fixed time for testing.
type Fixed struct {
	FixedTime time.Time
}

// Now returns the fixed time.
func (f Fixed) Now() time.Time {
	return f.FixedTime
}

// Step returns Start on the first call and advances by Interval on every call after.
type Step struct {
	Start    time.Time
	Interval time.Duration

	mu    sync.Mutex
	calls int
}

// Now returns the next time in the sequence.
func (s *Step) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.Start.Add(time.Duration(s.calls) * s.Interval)
	s.calls++
	return t
}

// OrReal returns c, or the system clock when c is nil.
func OrReal(c Clock) Clock {
	if c == nil {
		return Real{}
	}
	return c
}
