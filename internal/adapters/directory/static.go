package directory

// Package directory provides credential-lookup adapters for the session core.
// The static directory is a seeded, in-process stand-in for a real staff
// directory; the postgres directory authenticates against the staff table.

import (
	"context"
	"crypto/subtle"
	"time"

	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
	"github.com/bistronome/resto-ui-api/internal/ports"
)

// staticEntry pairs a principal with its plaintext password. Passwords stay
// inside this package; Authenticate strips them before anything escapes.
type staticEntry struct {
	principal domainauth.Principal
	password  string
}

// StaticConfig controls the static directory behavior.
type StaticConfig struct {
	// Latency simulates a backend round-trip. Zero means no delay.
	Latency time.Duration
	// Entries overrides the seeded accounts (tests). Nil keeps the defaults.
	Entries []SeedAccount
}

// SeedAccount is one seeded credential entry.
type SeedAccount struct {
	Principal domainauth.Principal
	Password  string
}

// Static is a seeded in-process Directory for development and demos.
type Static struct {
	entries []staticEntry
	latency time.Duration
}

// NewStatic constructs a static directory. Without explicit entries it seeds
// the three demo accounts (owner, manager, employee).
func NewStatic(cfg StaticConfig) *Static {
	seeds := cfg.Entries
	if seeds == nil {
		seeds = DefaultSeedAccounts()
	}
	entries := make([]staticEntry, 0, len(seeds))
	for _, s := range seeds {
		entries = append(entries, staticEntry{principal: s.Principal, password: s.Password})
	}
	return &Static{entries: entries, latency: cfg.Latency}
}

// Authenticate matches email and password exactly against the seeded entries.
// No match returns (nil, nil). The simulated latency respects ctx cancellation.
func (d *Static) Authenticate(ctx context.Context, email, password string) (*domainauth.Principal, error) {
	if d.latency > 0 {
		timer := time.NewTimer(d.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	for i := range d.entries {
		e := &d.entries[i]
		if e.principal.Email != email {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(e.password), []byte(password)) == 1 {
			p := e.principal
			return &p, nil
		}
		return nil, nil
	}
	return nil, nil
}

var _ ports.Directory = (*Static)(nil)

// DefaultSeedAccounts returns the demo staff directory. One account per role.
func DefaultSeedAccounts() []SeedAccount {
	tel := func(s string) *string { return &s }
	age := func(n int) *int { return &n }
	return []SeedAccount{
		{
			Principal: domainauth.Principal{
				ID: "1", Nom: "SUPER", Prenoms: "Admin",
				Email: "admin@restaurant.com", Role: domainauth.RoleOwner,
				Telephone: tel("0123456789"), Age: age(35),
			},
			Password: "admin123",
		},
		{
			Principal: domainauth.Principal{
				ID: "2", Nom: "MANAGER", Prenoms: "Jean",
				Email: "manager@restaurant.com", Role: domainauth.RoleManager,
				Telephone: tel("0123456788"), Age: age(30),
			},
			Password: "manager123",
		},
		{
			Principal: domainauth.Principal{
				ID: "3", Nom: "EMPLOYE", Prenoms: "Marie",
				Email: "employee@restaurant.com", Role: domainauth.RoleEmployee,
				Telephone: tel("0123456787"), Age: age(25),
			},
			Password: "employee123",
		},
	}
}
