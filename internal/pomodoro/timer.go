// Package pomodoro implements the countdown timer and its terminal program.
package pomodoro

import (
	"fmt"
	"time"
)

// DefaultDuration is the length of one Pomodoro.
const DefaultDuration = 25 * time.Minute

// Timer is a whole-second countdown. The zero value is a finished, paused timer.
type Timer struct {
	total     int
	remaining int
	running   bool
}

// NewTimer creates a paused timer set to d, truncated to whole seconds.
func NewTimer(d time.Duration) Timer {
	secs := int(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return Timer{total: secs, remaining: secs}
}

// Remaining returns the seconds left.
func (t Timer) Remaining() int { return t.remaining }

// Running reports whether the countdown is active.
func (t Timer) Running() bool { return t.running }

// Done reports whether the countdown reached zero.
func (t Timer) Done() bool { return t.remaining == 0 }

// Toggle starts or pauses the countdown. A finished timer stays paused.
func (t Timer) Toggle() Timer {
	if t.Done() {
		t.running = false
		return t
	}
	t.running = !t.running
	return t
}

// Tick advances the countdown by one second while running and stops at zero.
func (t Timer) Tick() Timer {
	if !t.running || t.remaining == 0 {
		return t
	}
	t.remaining--
	if t.remaining == 0 {
		t.running = false
	}
	return t
}

// Reset restores the full duration, paused.
func (t Timer) Reset() Timer {
	return Timer{total: t.total, remaining: t.total}
}

// String formats the remaining time as m:ss.
func (t Timer) String() string {
	return fmt.Sprintf("%d:%02d", t.remaining/60, t.remaining%60)
}
