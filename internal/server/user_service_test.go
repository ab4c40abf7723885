package server

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/db"
	"github.com/jonathan/portfolio-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) (*UserService, *db.MemoryUsers) {
	t.Helper()
	users := db.NewMemoryUsers()
	return NewUserService(users, &config.PasswordConfig{BcryptCost: bcrypt.MinCost}), users
}

func TestUserService_Register(t *testing.T) {
	svc, users := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, Registration{Name: "Jane", Email: " jane@example.com ", Password: "password123", Role: types.RoleCandidate})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, types.RoleCandidate, user.Role)

	stored, err := users.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.PasswordSet)
	assert.NotEqual(t, "password123", stored.PasswordHash)

	_, err = svc.Register(ctx, Registration{Name: "Jane", Email: "JANE@example.com", Password: "password123", Role: types.RoleEmployer, CompanyName: "Acme"})
	var exists *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &exists)
}

func TestUserService_RegisterEmployerNamedAfterCompany(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, err := svc.Register(context.Background(), Registration{Email: "hr@acme.com", Password: "password123", Role: types.RoleEmployer, CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", user.Name)
	assert.Equal(t, "Acme", user.CompanyName)
	assert.True(t, user.IsEmployer())
}

func TestUserService_RegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.Register(context.Background(), Registration{Email: "x@example.com", Password: "password123", Role: "admin"})
	var validation *ErrValidation
	assert.ErrorAs(t, err, &validation)
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, Registration{Name: "Jane", Email: "jane@example.com", Password: "password123", Role: types.RoleCandidate})
	require.NoError(t, err)

	user, err := svc.Login(ctx, &types.LoginRequest{Email: "Jane@Example.com", Password: "password123"}, types.RoleCandidate)
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)

	tests := []struct {
		name    string
		email   string
		pw      string
		role    types.Role
		wantErr any
	}{
		{"wrong password", "jane@example.com", "nope", types.RoleCandidate, &ErrInvalidCredentials{}},
		{"unknown email", "ghost@example.com", "password123", types.RoleCandidate, &ErrInvalidCredentials{}},
		{"wrong role route", "jane@example.com", "password123", types.RoleEmployer, &ErrRoleMismatch{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &types.LoginRequest{Email: tt.email, Password: tt.pw}, tt.role)
			require.Error(t, err)
			assert.IsType(t, tt.wantErr, err)
		})
	}
}

func TestUserService_GetUser(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.GetUser(context.Background(), uuid.New())
	var notFound *ErrUserNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestUserService_SeedAccountIsIdempotent(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()
	reg := Registration{Name: "Alex", Email: "candidate@demo.com", Password: "password123", Role: types.RoleCandidate}

	first, err := svc.SeedAccount(ctx, reg)
	require.NoError(t, err)
	second, err := svc.SeedAccount(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

type failingUsers struct{ *db.MemoryUsers }

func (failingUsers) CheckEmailExists(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestUserService_StoreFailure(t *testing.T) {
	svc := NewUserService(failingUsers{db.NewMemoryUsers()}, &config.PasswordConfig{BcryptCost: bcrypt.MinCost})

	_, err := svc.Register(context.Background(), Registration{Email: "a@b.c", Password: "password123", Role: types.RoleCandidate})
	require.Error(t, err)
	assert.Equal(t, 500, HTTPStatus(err))
}
