package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
	"github.com/bistronome/resto-ui-api/internal/ports"
)

// Durable-mirror keys. Values are JSON on write, JSON on read; a value that
// fails to parse is discarded and treated as absent.
const (
	keyAuthUser     = "auth_user"     // serialized principal
	keyLastLogin    = "last_login"    // RFC3339 string
	keySessionID    = "session_id"    // opaque string, informational only
	keyLastActivity = "last_activity" // unix milliseconds, numeric string
	keyActiveUser   = "active_user"   // principal snapshot, activity bookkeeping
)

// sessionKeys lists every mirror key owned by a session, for purge on logout.
var sessionKeys = []string{keyAuthUser, keyLastLogin, keySessionID, keyLastActivity, keyActiveUser}

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Directory ports.Directory
	State     ports.StateStore
	Clock     ports.Clock
	Logger    *slog.Logger
}

// SessionService is the single source of truth for one logical session: who
// is logged in, since when, and when they were last active. It mirrors its
// state to a durable store so a reconnect does not force re-login.
//
// Storage failures never surface: the in-memory state stays internally
// consistent and the mirror catches up on the next successful write. No other
// component writes the mirror.
type SessionService struct {
	directory ports.Directory
	state     ports.StateStore
	clock     ports.Clock
	logger    *slog.Logger

	mu   sync.RWMutex
	sess domainauth.Session
}

// NewSessionService constructs a SessionService. The session starts
// unauthenticated; call Restore to pick up a persisted principal.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	clock := opts.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		directory: opts.Directory,
		state:     opts.State,
		clock:     clock,
		logger:    logger,
	}
}

// Restore attempts to install a persisted principal from the durable mirror.
// Malformed or missing state leaves the session unauthenticated; a corrupt
// entry is deleted. Restore never fails its caller.
func (s *SessionService) Restore(ctx context.Context) {
	data, err := s.state.Get(ctx, keyAuthUser)
	if err != nil {
		return
	}

	var principal domainauth.Principal
	if unmarshalErr := json.Unmarshal(data, &principal); unmarshalErr != nil || !principal.Role.Valid() {
		s.logger.WarnContext(ctx, "discarding corrupt persisted principal", "error", unmarshalErr)
		if delErr := s.state.Delete(ctx, keyAuthUser, keyLastLogin); delErr != nil {
			s.logger.WarnContext(ctx, "purge corrupt session state failed", "error", delErr)
		}
		return
	}

	now := s.clock.Now()
	lastLogin := s.restoreLastLogin(ctx, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = domainauth.Session{
		Principal:    &principal,
		LastLogin:    lastLogin,
		LastActivity: now,
	}
}

// restoreLastLogin reads the persisted login timestamp, falling back to now.
func (s *SessionService) restoreLastLogin(ctx context.Context, fallback time.Time) time.Time {
	data, err := s.state.Get(ctx, keyLastLogin)
	if err != nil {
		return fallback
	}
	var raw string
	if json.Unmarshal(data, &raw) != nil {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fallback
	}
	return t
}

// Login authenticates against the directory. On success it installs the
// principal, records the login time, generates a fresh opaque session
// identifier, and mirrors everything durably. On no-match the session is left
// untouched and false is returned. The error return carries only
// infrastructure failures (directory unreachable), never bad credentials.
func (s *SessionService) Login(ctx context.Context, email, password string) (bool, error) {
	principal, err := s.directory.Authenticate(ctx, email, password)
	if err != nil {
		return false, err
	}
	if principal == nil {
		return false, nil
	}

	now := s.clock.Now()
	sessionID := uuid.NewString()

	s.mu.Lock()
	s.sess = domainauth.Session{
		Principal:    principal,
		SessionID:    sessionID,
		LastLogin:    now,
		LastActivity: now,
	}
	s.mu.Unlock()

	s.persist(ctx, keyAuthUser, principal)
	s.persist(ctx, keyLastLogin, now.UTC().Format(time.RFC3339))
	s.persist(ctx, keySessionID, sessionID)
	return true, nil
}

// Logout clears the session and purges every mirror key. Idempotent: logging
// out an unauthenticated session is a no-op.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.sess = domainauth.Session{}
	s.mu.Unlock()

	if err := s.state.Delete(ctx, sessionKeys...); err != nil {
		s.logger.WarnContext(ctx, "purge session state failed", "error", err)
	}
}

// ProfileUpdate carries the principal fields a user may change about
// themselves. The role is immutable for the lifetime of a session and is
// deliberately absent.
type ProfileUpdate struct {
	Nom       *string `json:"nom,omitempty"`
	Prenoms   *string `json:"prenoms,omitempty"`
	Email     *string `json:"email,omitempty"`
	Telephone *string `json:"telephone,omitempty"`
	Age       *int    `json:"age,omitempty"`
}

// UpdateProfile merges the given fields into the current principal and
// mirrors the result. Returns false when no principal is installed. The store
// performs no field validation; that is the caller's responsibility.
func (s *SessionService) UpdateProfile(ctx context.Context, updates ProfileUpdate) (bool, error) {
	s.mu.Lock()
	if s.sess.Principal == nil {
		s.mu.Unlock()
		return false, nil
	}
	p := *s.sess.Principal
	if updates.Nom != nil {
		p.Nom = *updates.Nom
	}
	if updates.Prenoms != nil {
		p.Prenoms = *updates.Prenoms
	}
	if updates.Email != nil {
		p.Email = *updates.Email
	}
	if updates.Telephone != nil {
		p.Telephone = updates.Telephone
	}
	if updates.Age != nil {
		p.Age = updates.Age
	}
	s.sess.Principal = &p
	s.mu.Unlock()

	s.persist(ctx, keyAuthUser, &p)
	return true, nil
}

// TouchActivity advances the in-memory last-activity timestamp. Called on
// every qualifying activity event; never writes the mirror (see
// RecordActivity for the periodic durable marker).
func (s *SessionService) TouchActivity() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess.Principal == nil {
		return
	}
	if now.After(s.sess.LastActivity) {
		s.sess.LastActivity = now
	}
}

// RecordActivity mirrors the last-activity marker and a principal snapshot.
// Best-effort bookkeeping: failures are logged and swallowed, and must never
// affect callers.
func (s *SessionService) RecordActivity(ctx context.Context) {
	s.mu.RLock()
	principal := s.sess.Principal
	lastActivity := s.sess.LastActivity
	s.mu.RUnlock()
	if principal == nil {
		return
	}

	s.persist(ctx, keyLastActivity, strconv.FormatInt(lastActivity.UnixMilli(), 10))
	s.persist(ctx, keyActiveUser, principal)
}

// Snapshot returns a copy of the current session. The principal is copied so
// callers can never mutate store state through it.
func (s *SessionService) Snapshot() domainauth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.sess
	if s.sess.Principal != nil {
		p := *s.sess.Principal
		snap.Principal = &p
	}
	return snap
}

// Authenticated reports whether a principal is installed.
func (s *SessionService) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Authenticated()
}

// persist JSON-encodes v under key, swallowing failures per the mirror
// contract.
func (s *SessionService) persist(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.WarnContext(ctx, "marshal session state failed", "key", key, "error", err)
		return
	}
	if err := s.state.Set(ctx, key, data); err != nil {
		s.logger.WarnContext(ctx, "mirror session state failed", "key", key, "error", err)
	}
}
