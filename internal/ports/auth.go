package ports

// Package ports defines interfaces (hexagonal ports) for the session core.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
)

// Directory looks up a principal by exact credential match. It returns
// (nil, nil) when no entry matches: a failed login is an expected outcome,
// not an error. The password never travels past the directory boundary; the
// returned principal carries no credential material.
type Directory interface {
	Authenticate(ctx context.Context, email, password string) (*domainauth.Principal, error)
}

// StateStore is the durable session mirror: string-keyed, JSON-valued.
// Get returns ErrKeyNotFound for absent keys. A value that fails to parse is
// the caller's problem; stores only move bytes.
type StateStore interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, keys ...string) error
}

// CancelFunc cancels a scheduled callback. Cancelling an already-fired or
// already-cancelled callback is a no-op.
type CancelFunc func()

// Scheduler schedules a callback at an absolute deadline. These two
// primitives are the monitor's only scheduling surface, so tests can swap in
// a virtual-time implementation.
type Scheduler interface {
	ScheduleAt(deadline time.Time, fn func()) CancelFunc
}

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }

// Notification is a titled message for the user, with a suggested display
// duration. The sink decides how to render it.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Duration    time.Duration    `json:"duration"`
}

// NotificationKind distinguishes the session lifecycle notifications.
type NotificationKind string

const (
	// NotificationExpiringSoon warns that the session is about to time out.
	NotificationExpiringSoon NotificationKind = "session_expiring_soon"
	// NotificationSessionExtended confirms a reset that happened during the
	// warning window.
	NotificationSessionExtended NotificationKind = "session_extended"
	// NotificationInactivityLogout announces a forced logout.
	NotificationInactivityLogout NotificationKind = "inactivity_logout"
)

// NotificationSink receives session lifecycle notifications.
type NotificationSink interface {
	Notify(n Notification)
}

// Delivered is a notification stamped with its emission time, as replayed to
// the UI.
type Delivered struct {
	Notification
	At time.Time `json:"at"`
}

// NotificationFeed is a sink whose recent deliveries can be read back, so the
// front end can poll for pending toasts.
type NotificationFeed interface {
	NotificationSink
	Recent(since time.Time) []Delivered
}
