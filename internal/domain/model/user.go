//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"

	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
)

// User is a staff account as managed by the back office. PasswordHash never
// leaves the data layer; JSON marshalling always omits it.
type User struct {
	ID           string          `json:"id"                  db:"id"`
	Nom          string          `json:"nom"                 db:"nom"`
	Prenoms      string          `json:"prenoms"             db:"prenoms"`
	Email        string          `json:"email"               db:"email"`
	Telephone    *string         `json:"telephone,omitempty" db:"telephone"`
	Age          *int            `json:"age,omitempty"       db:"age"`
	Role         domainauth.Role `json:"role"                db:"role"`
	PasswordHash string          `json:"-"                   db:"password_hash"`
	CreatedAt    time.Time       `json:"created_at"          db:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty" db:"updated_at"`
}

// Principal converts a staff account into the session principal shape.
func (u *User) Principal() domainauth.Principal {
	return domainauth.Principal{
		ID:        u.ID,
		Nom:       u.Nom,
		Prenoms:   u.Prenoms,
		Email:     u.Email,
		Role:      u.Role,
		Telephone: u.Telephone,
		Age:       u.Age,
	}
}

// CreateUserRequest represents parameters to create a staff account.
type CreateUserRequest struct {
	Nom       string          `json:"nom"`
	Prenoms   string          `json:"prenoms"`
	Email     string          `json:"email"`
	Telephone *string         `json:"telephone,omitempty"`
	Age       *int            `json:"age,omitempty"`
	Role      domainauth.Role `json:"role"`
	Password  string          `json:"password"`
}

// Validate validates CreateUserRequest.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.Nom) == "" {
		return errors.New("nom is required")
	}
	if strings.TrimSpace(r.Prenoms) == "" {
		return errors.New("prenoms is required")
	}
	if !validEmail(r.Email) {
		return errors.New("a valid email is required")
	}
	if !r.Role.Valid() {
		return errors.New("invalid role")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if r.Age != nil && (*r.Age < 16 || *r.Age > 99) {
		return errors.New("age must be between 16 and 99")
	}
	return nil
}

// UpdateUserRequest represents parameters to update a staff account.
type UpdateUserRequest struct {
	Nom       *string          `json:"nom,omitempty"`
	Prenoms   *string          `json:"prenoms,omitempty"`
	Email     *string          `json:"email,omitempty"`
	Telephone *string          `json:"telephone,omitempty"`
	Age       *int             `json:"age,omitempty"`
	Role      *domainauth.Role `json:"role,omitempty"`
	Password  *string          `json:"password,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateUserRequest.
func (r *UpdateUserRequest) HasUpdates() bool {
	return r.Nom != nil || r.Prenoms != nil || r.Email != nil ||
		r.Telephone != nil || r.Age != nil || r.Role != nil || r.Password != nil
}

// Validate validates UpdateUserRequest.
func (r *UpdateUserRequest) Validate() error {
	if r.Nom != nil && strings.TrimSpace(*r.Nom) == "" {
		return errors.New("nom cannot be empty")
	}
	if r.Prenoms != nil && strings.TrimSpace(*r.Prenoms) == "" {
		return errors.New("prenoms cannot be empty")
	}
	if r.Email != nil && !validEmail(*r.Email) {
		return errors.New("invalid email")
	}
	if r.Role != nil && !r.Role.Valid() {
		return errors.New("invalid role")
	}
	if r.Password != nil && len(*r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if r.Age != nil && (*r.Age < 16 || *r.Age > 99) {
		return errors.New("age must be between 16 and 99")
	}
	return nil
}

// UsersListOptions controls paging and filtering for listing staff accounts.
// Q matches nom, prenoms, and email via ILIKE substring.
type UsersListOptions struct {
	Limit  int
	Offset int
	Q      *string
	Role   *domainauth.Role
	Sort   string // allowed: "created_at", "nom", "email"
	Dir    string // allowed: "asc", "desc"
}

// validEmail applies the minimal shape check used across requests; real
// deliverability is the mail system's problem.
func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return strings.Contains(s[at+1:], ".")
}
