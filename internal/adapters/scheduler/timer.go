package scheduler

// Package scheduler provides the production ports.Scheduler backed by
// time.AfterFunc.

import (
	"time"

	"github.com/bistronome/resto-ui-api/internal/ports"
)

// Timer schedules callbacks on real wall-clock time.
type Timer struct{}

// New constructs a Timer scheduler.
func New() *Timer { return &Timer{} }

// ScheduleAt runs fn once the deadline passes. Deadlines in the past fire
// immediately. The returned CancelFunc stops a pending callback; cancelling
// after the callback fired is a no-op.
func (Timer) ScheduleAt(deadline time.Time, fn func()) ports.CancelFunc {
	t := time.AfterFunc(time.Until(deadline), fn)
	return func() { t.Stop() }
}

var _ ports.Scheduler = (*Timer)(nil)
