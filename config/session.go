package config

import "time"

// SessionConfig contains session lifecycle configuration.
type SessionConfig struct {
	// IdleTimeout is how long a session may stay inactive before it is
	// forcibly ended.
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	// WarningLead is how long before forced logout the user is warned.
	// Must be strictly smaller than IdleTimeout.
	WarningLead time.Duration `env:"SESSION_WARNING_LEAD" envDefault:"5m"`

	// BookkeepInterval is how often the idle monitor persists the
	// last-activity marker while a session is live. Best-effort only.
	BookkeepInterval time.Duration `env:"SESSION_BOOKKEEP_INTERVAL" envDefault:"1m"`

	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"bistronome_session"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.IdleTimeout <= 0 {
		s.IdleTimeout = 30 * time.Minute
	}
	// The warning must fire before the forced logout; clamp the lead into
	// (0, IdleTimeout).
	if s.WarningLead <= 0 || s.WarningLead >= s.IdleTimeout {
		s.WarningLead = s.IdleTimeout / 6
	}
	if s.BookkeepInterval <= 0 {
		s.BookkeepInterval = time.Minute
	}
	if s.CookieName == "" {
		s.CookieName = "bistronome_session"
	}
}
