package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer_FiresAfterDeadline(t *testing.T) {
	s := New()
	fired := make(chan struct{})

	s.ScheduleAt(time.Now().Add(10*time.Millisecond), func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestTimer_PastDeadlineFiresImmediately(t *testing.T) {
	s := New()
	fired := make(chan struct{})

	s.ScheduleAt(time.Now().Add(-time.Second), func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestTimer_CancelStopsPendingCallback(t *testing.T) {
	s := New()
	fired := make(chan struct{}, 1)

	cancel := s.ScheduleAt(time.Now().Add(50*time.Millisecond), func() { fired <- struct{}{} })
	cancel()
	// Cancelling twice is harmless.
	cancel()

	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(150 * time.Millisecond):
	}
	assert.Empty(t, fired)
}
