package config

import (
	"fmt"
	"strings"
)

// DirectoryMode selects where credential lookups go.
type DirectoryMode string

const (
	// DirectoryModeStatic uses the built-in seeded staff directory
	// (development and demos only).
	DirectoryModeStatic DirectoryMode = "static"
	// DirectoryModePostgres authenticates against the staff accounts table.
	DirectoryModePostgres DirectoryMode = "postgres"
)

// UnmarshalText implements encoding.TextUnmarshaler for DirectoryMode.
func (d *DirectoryMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "static", "postgres":
		*d = DirectoryMode(v)
		return nil
	default:
		return fmt.Errorf("invalid DirectoryMode: %q (valid options: static, postgres)", v)
	}
}

// StaticDirectoryConfig controls the seeded directory used in static mode.
// Latency simulates a backend round-trip so callers keep the asynchronous
// contract a real directory would impose.
type StaticDirectoryConfig struct {
	Latency string `env:"LATENCY" envDefault:"1s"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// DirectoryMode determines which credential directory to use.
	DirectoryMode DirectoryMode `env:"DIRECTORY_MODE" envDefault:"postgres"`

	// StaticDirectory configuration (used when DirectoryMode=static).
	StaticDirectory StaticDirectoryConfig `envPrefix:"STATIC_DIRECTORY_"`
}
