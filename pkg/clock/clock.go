// Package clock provides an injectable wall-clock abstraction plus calendar
// helpers. The streak tracker, retention model, and schedule watchers are all
// deterministic functions of "now", so every component takes a Clock instead
// of calling time.Now directly.
// No external dependencies - uses only standard library.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current timestamp.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// System is the real wall clock in the given location.
type System struct {
	loc *time.Location
}

// NewSystem creates a system clock. A nil location defaults to time.Local.
func NewSystem(loc *time.Location) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{loc: loc}
}

// Now implements Clock.
func (s *System) Now() time.Time {
	return time.Now().In(s.loc)
}

// Stub is a settable clock for deterministic tests.
type Stub struct {
	mu  sync.Mutex
	now time.Time
}

// NewStub creates a stub clock frozen at the given instant.
func NewStub(now time.Time) *Stub {
	return &Stub{now: now}
}

// Now implements Clock.
func (s *Stub) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Set moves the stub to a new instant.
func (s *Stub) Set(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Advance moves the stub forward by d.
func (s *Stub) Advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

// StartOfDay returns the start of the day (00:00:00) for t in its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
