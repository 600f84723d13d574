package service

import (
	"context"
	"errors"

	"github.com/bistronome/resto-ui-api/internal/core"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
)

// PasswordHasher turns a plaintext password into its storage form.
type PasswordHasher func(password string) (string, error)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Users core.UserRepository
	Hash  PasswordHasher
}

// UserService orchestrates staff account administration. Passwords are hashed
// before they reach the repository; plaintext never leaves this layer.
type UserService struct {
	users core.UserRepository
	hash  PasswordHasher
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	return &UserService{users: opts.Users, hash: opts.Hash}
}

// Create validates the request, hashes the password, and persists the account.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, errors.New("create user request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, req, hash)
}

// GetByID retrieves a staff account by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns a page of staff accounts plus the total row count.
func (s *UserService) List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, int, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.users.List(ctx, opts)
}

// Update applies the request, rehashing the password when one is supplied.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var passwordHash *string
	if req.Password != nil {
		hash, err := s.hash(*req.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hash
	}
	return s.users.Update(ctx, id, req, passwordHash)
}

// Delete removes a staff account. Returns false when the account does not exist.
func (s *UserService) Delete(ctx context.Context, id string) (bool, error) {
	return s.users.Delete(ctx, id)
}
