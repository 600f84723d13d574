package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/bistronome/resto-ui-api/internal/ports"
)

// StateStoreFactory builds the durable mirror for one session handle. The
// handle namespaces the mirror keys so sessions never see each other's state.
type StateStoreFactory func(handle string) ports.StateStore

// NotifierFactory builds the notification feed for one session handle.
type NotifierFactory func(handle string) ports.NotificationFeed

// SessionRegistryOptions groups dependencies for SessionRegistry.
type SessionRegistryOptions struct {
	Directory ports.Directory
	States    StateStoreFactory
	Notifiers NotifierFactory
	Scheduler ports.Scheduler
	Clock     ports.Clock
	Idle      IdleConfig
	Logger    *slog.Logger
}

// SessionEntry bundles one browser session's store, idle monitor, and
// notification feed.
type SessionEntry struct {
	Handle   string
	Sessions *SessionService
	Monitor  *IdleMonitor
	Feed     ports.NotificationFeed
}

// SessionRegistry owns one SessionService and IdleMonitor per browser
// session. It is the explicit, constructed home for session state: built once
// at application start, handed to the HTTP layer, and disposed on shutdown.
// Entries are created lazily when a request presents an unknown handle; the
// new store restores itself from the durable mirror, so server restarts do
// not force re-login.
type SessionRegistry struct {
	opts SessionRegistryOptions

	mu       sync.Mutex
	entries  map[string]*SessionEntry
	disposed bool
}

// NewSessionRegistry constructs a SessionRegistry.
func NewSessionRegistry(opts SessionRegistryOptions) *SessionRegistry {
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &SessionRegistry{
		opts:    opts,
		entries: make(map[string]*SessionEntry),
	}
}

// NewHandle mints a fresh opaque session handle for the session cookie.
func (r *SessionRegistry) NewHandle() string { return uuid.NewString() }

// Attach returns the entry for the handle, creating and restoring it on first
// sight. A restored authenticated session gets its idle monitor armed
// immediately.
func (r *SessionRegistry) Attach(ctx context.Context, handle string) *SessionEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return nil
	}
	if entry, ok := r.entries[handle]; ok {
		return entry
	}

	sessions := NewSessionService(SessionServiceOptions{
		Directory: r.opts.Directory,
		State:     r.opts.States(handle),
		Clock:     r.opts.Clock,
		Logger:    r.opts.Logger,
	})
	sessions.Restore(ctx)

	feed := r.opts.Notifiers(handle)
	monitor := NewIdleMonitor(IdleMonitorOptions{
		Sessions:  sessions,
		Notifier:  feed,
		Scheduler: r.opts.Scheduler,
		Clock:     r.opts.Clock,
		Config:    r.opts.Idle,
		Logger:    r.opts.Logger,
		OnExpired: func() { r.drop(handle) },
	})

	entry := &SessionEntry{Handle: handle, Sessions: sessions, Monitor: monitor, Feed: feed}
	r.entries[handle] = entry

	if sessions.Authenticated() {
		monitor.Start()
	}
	return entry
}

// Peek returns the entry for the handle without creating one.
func (r *SessionRegistry) Peek(handle string) (*SessionEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[handle]
	return entry, ok
}

// Logout ends the session behind the handle: the monitor's deadlines are
// cancelled before the store purges its state, and the entry is dropped.
// Unknown handles are a no-op.
func (r *SessionRegistry) Logout(ctx context.Context, handle string) {
	entry, ok := r.Peek(handle)
	if !ok {
		return
	}
	entry.Monitor.Stop()
	entry.Sessions.Logout(ctx)
	r.drop(handle)
}

// Release drops the entry for the handle unless a principal is installed.
// The HTTP layer calls this when a request finishes, so handles minted for
// anonymous traffic (health checks, scanners, visitors who never log in) do
// not accumulate entries; the next request with the same cookie re-attaches
// and restores from the durable mirror.
func (r *SessionRegistry) Release(handle string) {
	r.mu.Lock()
	entry, ok := r.entries[handle]
	if !ok || entry.Sessions.Authenticated() {
		r.mu.Unlock()
		return
	}
	delete(r.entries, handle)
	r.mu.Unlock()
	entry.Monitor.Stop()
}

// drop removes an entry. The monitor is stopped defensively; dropping after
// expiry finds it already inactive.
func (r *SessionRegistry) drop(handle string) {
	r.mu.Lock()
	entry, ok := r.entries[handle]
	delete(r.entries, handle)
	r.mu.Unlock()
	if ok {
		entry.Monitor.Stop()
	}
}

// Dispose tears down every monitor. In-memory entries are discarded; durable
// mirrors are left in place so sessions survive the restart.
func (r *SessionRegistry) Dispose() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*SessionEntry)
	r.disposed = true
	r.mu.Unlock()
	for _, entry := range entries {
		entry.Monitor.Stop()
	}
}
