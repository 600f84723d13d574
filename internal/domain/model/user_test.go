package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/bistronome/resto-ui-api/internal/domain/auth"
)

func validCreateUser() CreateUserRequest {
	return CreateUserRequest{
		Nom:      "MARTIN",
		Prenoms:  "Sophie",
		Email:    "sophie@restaurant.com",
		Role:     domainauth.RoleEmployee,
		Password: "longenough",
	}
}

func TestCreateUserRequest_Validate(t *testing.T) {
	req := validCreateUser()
	require.NoError(t, req.Validate())

	t.Run("missing nom", func(t *testing.T) {
		r := validCreateUser()
		r.Nom = " "
		assert.Error(t, r.Validate())
	})
	t.Run("bad email", func(t *testing.T) {
		r := validCreateUser()
		r.Email = "not-an-email"
		assert.Error(t, r.Validate())
	})
	t.Run("bad role", func(t *testing.T) {
		r := validCreateUser()
		r.Role = domainauth.Role("chef")
		assert.Error(t, r.Validate())
	})
	t.Run("short password", func(t *testing.T) {
		r := validCreateUser()
		r.Password = "short"
		assert.Error(t, r.Validate())
	})
	t.Run("age bounds", func(t *testing.T) {
		r := validCreateUser()
		young := 15
		r.Age = &young
		assert.Error(t, r.Validate())

		old := 100
		r.Age = &old
		assert.Error(t, r.Validate())

		ok := 42
		r.Age = &ok
		assert.NoError(t, r.Validate())
	})
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	var empty UpdateUserRequest
	assert.False(t, empty.HasUpdates())
	assert.NoError(t, empty.Validate())

	badEmail := "nope"
	assert.Error(t, (&UpdateUserRequest{Email: &badEmail}).Validate())

	short := "short"
	assert.Error(t, (&UpdateUserRequest{Password: &short}).Validate())

	email := "new@restaurant.com"
	req := UpdateUserRequest{Email: &email}
	assert.True(t, req.HasUpdates())
	assert.NoError(t, req.Validate())
}

func TestUser_Principal(t *testing.T) {
	tel := "0102030405"
	age := 28
	u := User{
		ID: "7", Nom: "DUPONT", Prenoms: "Luc",
		Email: "luc@restaurant.com", Telephone: &tel, Age: &age,
		Role: domainauth.RoleManager, PasswordHash: "secret-hash",
	}

	p := u.Principal()
	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, u.Email, p.Email)
	assert.Equal(t, domainauth.RoleManager, p.Role)
	assert.Equal(t, &tel, p.Telephone)
	assert.Equal(t, &age, p.Age)
}
