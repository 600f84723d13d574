package httpx

import (
	"context"

	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
	"github.com/bistronome/resto-ui-api/internal/service"
)

// entryKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type entryKey struct{}

// SetEntryInContext returns a child context that carries the given session entry.
// If entry is nil, the original ctx is returned unchanged.
func SetEntryInContext(ctx context.Context, entry *service.SessionEntry) context.Context {
	if entry == nil {
		return ctx
	}
	return context.WithValue(ctx, entryKey{}, entry)
}

// GetEntryFromContext returns the session entry from context and a boolean indicating presence.
func GetEntryFromContext(ctx context.Context) (*service.SessionEntry, bool) {
	if entry, ok := ctx.Value(entryKey{}).(*service.SessionEntry); ok && entry != nil {
		return entry, true
	}
	return nil, false
}

// GetSessionFromContext returns a snapshot of the current session. Requests
// that never went through the session middleware read as unauthenticated.
func GetSessionFromContext(ctx context.Context) domainauth.Session {
	if entry, ok := GetEntryFromContext(ctx); ok {
		return entry.Sessions.Snapshot()
	}
	return domainauth.Session{}
}
