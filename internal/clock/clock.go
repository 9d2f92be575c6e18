// Package clock supplies the execution-time timestamp consumed by the vesting engine.
package clock

import (
	"errors"
	"sync"
	"time"
)

// ErrClockRewind is returned when a manual clock is moved backwards.
var ErrClockRewind = errors.New("clock cannot move backwards")

// Clock returns the current unix timestamp in seconds.
type Clock interface {
	Now() int64
}

// System reads the wall clock.
type System struct{}

func (System) Now() int64 {
	return time.Now().Unix()
}

// Manual is a settable, non-decreasing clock.
type Manual struct {
	mu  sync.Mutex
	now int64
}

// NewManual starts a manual clock at ts.
func NewManual(ts int64) *Manual {
	return &Manual{now: ts}
}

func (m *Manual) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to ts.
func (m *Manual) Set(ts int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ts < m.now {
		return ErrClockRewind
	}
	m.now = ts
	return nil
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d int64) error {
	if d < 0 {
		return ErrClockRewind
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
	return nil
}
