package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bistronome/resto-ui-api/internal/data"
	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
	"github.com/bistronome/resto-ui-api/internal/domain/model"
)

// fakeUserRepo serves GetByEmail from a fixed account map.
type fakeUserRepo struct {
	byEmail map[string]*model.User
	err     error
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(context.Context, *model.CreateUserRequest, string) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByID(context.Context, string) (*model.User, error) { return nil, nil }
func (f *fakeUserRepo) List(context.Context, model.UsersListOptions) ([]*model.User, int, error) {
	return nil, 0, nil
}
func (f *fakeUserRepo) Update(context.Context, string, model.UpdateUserRequest, *string) (*model.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Delete(context.Context, string) (bool, error) { return false, nil }

func newPostgresDirectory(t *testing.T) (*Postgres, *fakeUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("manager123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &fakeUserRepo{byEmail: map[string]*model.User{
		"manager@restaurant.com": {
			ID: "2", Nom: "MANAGER", Prenoms: "Jean",
			Email: "manager@restaurant.com", Role: domainauth.RoleManager,
			PasswordHash: string(hash),
		},
	}}
	return NewPostgres(repo), repo
}

func TestPostgres_AuthenticateSuccess(t *testing.T) {
	d, _ := newPostgresDirectory(t)

	p, err := d.Authenticate(context.Background(), "manager@restaurant.com", "manager123")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "2", p.ID)
	assert.Equal(t, domainauth.RoleManager, p.Role)
}

func TestPostgres_AuthenticateNoMatch(t *testing.T) {
	d, _ := newPostgresDirectory(t)
	ctx := context.Background()

	p, err := d.Authenticate(ctx, "manager@restaurant.com", "wrong")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = d.Authenticate(ctx, "ghost@restaurant.com", "manager123")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPostgres_AuthenticateRepoFailure(t *testing.T) {
	d, repo := newPostgresDirectory(t)
	repo.err = errors.New("connection refused")

	_, err := d.Authenticate(context.Background(), "manager@restaurant.com", "manager123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory lookup")
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("employee123")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("employee123")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("other")))
}
