package directory

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bistronome/resto-ui-api/internal/core"
	"github.com/bistronome/resto-ui-api/internal/data"
	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
	"github.com/bistronome/resto-ui-api/internal/ports"
)

// Postgres authenticates against the staff accounts table, so the back-office
// user admin doubles as the credential directory.
type Postgres struct {
	users core.UserRepository
}

// NewPostgres constructs a postgres-backed directory.
func NewPostgres(users core.UserRepository) *Postgres {
	return &Postgres{users: users}
}

// Authenticate looks up the account by email and verifies the bcrypt hash.
// Unknown email and wrong password are both (nil, nil): a failed login is an
// expected outcome, and the two cases must be indistinguishable to callers.
func (d *Postgres) Authenticate(ctx context.Context, email, password string) (*domainauth.Principal, error) {
	user, err := d.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("directory lookup: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}

	principal := user.Principal()
	return &principal, nil
}

var _ ports.Directory = (*Postgres)(nil)

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
