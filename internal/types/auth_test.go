//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid request",
			request: CreateUserRequest{Name: "John Doe", Email: "john@example.com", Password: "password123"},
		},
		{
			name:    "empty name",
			request: CreateUserRequest{Email: "john@example.com", Password: "password123"},
			wantErr: true,
			errMsg:  "required",
		},
		{
			name:    "invalid email format",
			request: CreateUserRequest{Name: "John Doe", Email: "not-an-email", Password: "password123"},
			wantErr: true,
			errMsg:  "email",
		},
		{
			name:    "short password",
			request: CreateUserRequest{Name: "John Doe", Email: "john@example.com", Password: "short"},
			wantErr: true,
			errMsg:  "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateEmployerRequest_Validation(t *testing.T) {
	t.Run("company name required", func(t *testing.T) {
		req := CreateEmployerRequest{Email: "hr@acme.com", Password: "password123"}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CompanyName")
	})

	t.Run("name is optional", func(t *testing.T) {
		req := CreateEmployerRequest{CompanyName: "Acme", Email: "hr@acme.com", Password: "password123"}
		assert.NoError(t, req.Validate())
	})
}

func TestLoginRequest_Validation(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "a@b.com", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "a@b.com"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "nope", Password: "x"}).Validate())
}

func TestRole(t *testing.T) {
	assert.True(t, RoleCandidate.Valid())
	assert.True(t, RoleEmployer.Valid())
	assert.False(t, Role("admin").Valid())

	u := &User{Role: RoleEmployer}
	assert.True(t, u.IsEmployer())
	assert.False(t, (&User{Role: RoleCandidate}).IsEmployer())
	assert.False(t, (*User)(nil).IsEmployer())
}

func TestUser_JSONOmitsEmptyCompany(t *testing.T) {
	u := User{ID: uuid.New(), Email: "a@b.com", Name: "A", Role: RoleCandidate}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "companyName")
	assert.Contains(t, string(data), `"role":"candidate"`)
}
