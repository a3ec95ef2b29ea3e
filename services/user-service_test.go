package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskflow-project/backend/models"
)

func validRegisterRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Name:     "Ana",
		LastName: "Babic",
		Username: "anab",
		Email:    "ana@example.com",
		Password: "Str0ng.pass",
	}
}

func TestRegisterUser(t *testing.T) {
	users := newFakeUserRepo()
	s := NewUserService(users, nil)

	user, err := s.RegisterUser(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	require.Equal(t, []models.Role{models.RoleUser}, user.Roles, "role set defaults to {user}")
	require.NotEqual(t, "Str0ng.pass", user.Password, "password is stored hashed")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Str0ng.pass")))
	require.False(t, user.ID.IsZero())
}

func TestRegisterUserExplicitRoles(t *testing.T) {
	users := newFakeUserRepo()
	s := NewUserService(users, nil)

	req := validRegisterRequest()
	req.Roles = []string{"manager", "user"}

	user, err := s.RegisterUser(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, []models.Role{models.RoleManager, models.RoleUser}, user.Roles)
}

func TestRegisterUserValidation(t *testing.T) {
	users := newFakeUserRepo()
	s := NewUserService(users, map[string]bool{"Common.123": true})

	tests := []struct {
		name   string
		mutate func(*models.RegisterRequest)
		field  string
	}{
		{name: "short username", mutate: func(r *models.RegisterRequest) { r.Username = "ab" }, field: "username"},
		{name: "bad email", mutate: func(r *models.RegisterRequest) { r.Email = "nope" }, field: "email"},
		{name: "missing name", mutate: func(r *models.RegisterRequest) { r.Name = "" }, field: "name"},
		{name: "short password", mutate: func(r *models.RegisterRequest) { r.Password = "S.1a" }, field: "password"},
		{name: "no uppercase", mutate: func(r *models.RegisterRequest) { r.Password = "weak.pass1" }, field: "password"},
		{name: "no digit", mutate: func(r *models.RegisterRequest) { r.Password = "Weak.passs" }, field: "password"},
		{name: "no special char", mutate: func(r *models.RegisterRequest) { r.Password = "Weakpass12" }, field: "password"},
		{name: "blacklisted password", mutate: func(r *models.RegisterRequest) { r.Password = "Common.123" }, field: "password"},
		{name: "unknown role", mutate: func(r *models.RegisterRequest) { r.Roles = []string{"superuser"} }, field: "roles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegisterRequest()
			tt.mutate(&req)

			_, err := s.RegisterUser(context.Background(), req)
			var v *models.ValidationError
			require.ErrorAs(t, err, &v)
			require.Contains(t, v.Fields, tt.field)
		})
	}
}

func TestRegisterUserDuplicate(t *testing.T) {
	users := newFakeUserRepo()
	s := NewUserService(users, nil)

	_, err := s.RegisterUser(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	_, err = s.RegisterUser(context.Background(), validRegisterRequest())
	require.ErrorIs(t, err, ErrUserExists)

	req := validRegisterRequest()
	req.Email = "other@example.com" // same username, different email
	_, err = s.RegisterUser(context.Background(), req)
	require.ErrorIs(t, err, ErrUserExists)
}

func TestAuthenticate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	users := newFakeUserRepo()
	s := NewUserService(users, nil)

	_, err := s.RegisterUser(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	user, token, err := s.Authenticate(context.Background(), "ana@example.com", "Str0ng.pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "ana@example.com", user.Email)

	_, _, err = s.Authenticate(context.Background(), "ana@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Authenticate(context.Background(), "ghost@example.com", "Str0ng.pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestListUsersReturnsPublicProjection(t *testing.T) {
	users := newFakeUserRepo()
	s := NewUserService(users, nil)

	_, err := s.RegisterUser(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	members, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "anab", members[0].Username)
}
