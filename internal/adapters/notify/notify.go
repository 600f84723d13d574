package notify

// Package notify provides the notification feed for session lifecycle events:
// an in-memory ring the UI polls for toasts, with structured logging of every
// delivery.

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bistronome/resto-ui-api/internal/ports"
)

// Ring retains the most recent notifications in memory so the front end can
// poll them and render toasts. Oldest entries are dropped at capacity. Every
// delivery is also written to the structured log.
type Ring struct {
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries []ports.Delivered
	cap     int
}

// NewRing constructs a Ring holding up to capacity notifications.
func NewRing(capacity int, logger *slog.Logger) *Ring {
	if capacity <= 0 {
		capacity = 32
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ring{cap: capacity, logger: logger, now: time.Now}
}

// Notify implements ports.NotificationSink.
func (r *Ring) Notify(n ports.Notification) {
	r.logger.Info("session notification",
		slog.String("kind", string(n.Kind)),
		slog.String("title", n.Title),
		slog.Duration("duration", n.Duration),
	)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, ports.Delivered{Notification: n, At: r.now()})
	if len(r.entries) > r.cap {
		r.entries = r.entries[len(r.entries)-r.cap:]
	}
}

// Recent returns notifications emitted after the given time, oldest first.
func (r *Ring) Recent(since time.Time) []ports.Delivered {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.Delivered, 0, len(r.entries))
	for _, e := range r.entries {
		if e.At.After(since) {
			out = append(out, e)
		}
	}
	return out
}

var _ ports.NotificationFeed = (*Ring)(nil)
