package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/portfolio-builder/internal/config"
	"github.com/jonathan/portfolio-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testSecret,
		Issuer:          "portfolio-builder",
		ExpirationHours: expirationHours,
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	service := setupTestJWTService(t, 24)

	for _, role := range []types.Role{types.RoleCandidate, types.RoleEmployer} {
		t.Run(string(role), func(t *testing.T) {
			user := &types.User{ID: uuid.New(), Role: role}

			token, err := service.GenerateToken(user)
			require.NoError(t, err)
			assert.Len(t, strings.Split(token, "."), 3)

			claims, err := service.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, role, claims.Role)
			assert.Equal(t, "portfolio-builder", claims.Issuer)

			principal, err := service.AsTokenValidator().ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, principal.UserID)
			assert.Equal(t, string(role), principal.Role)
		})
	}
}

func TestJWTService_Expired(t *testing.T) {
	service := setupTestJWTService(t, 1)
	issued := time.Now()
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken(&types.User{ID: uuid.New(), Role: types.RoleCandidate})
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTService_Rejects(t *testing.T) {
	service := setupTestJWTService(t, 24)
	user := &types.User{ID: uuid.New(), Role: types.RoleCandidate}

	other := NewJWTService(&config.JWTConfig{Secret: "another-secret-key-of-reasonable-length", Issuer: "portfolio-builder", ExpirationHours: 24})
	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)

	otherIssuer := NewJWTService(&config.JWTConfig{Secret: testSecret, Issuer: "someone-else", ExpirationHours: 24})
	wrongIssuer, err := otherIssuer.GenerateToken(user)
	require.NoError(t, err)

	noRole, err := service.GenerateToken(&types.User{ID: uuid.New()})
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: user.ID, Role: user.Role})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"empty":        "",
		"garbage":      "not.a.token",
		"wrong secret": foreign,
		"wrong issuer": wrongIssuer,
		"missing role": noRole,
		"alg none":     unsigned,
		"truncated":    foreign[:len(foreign)-4],
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := service.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}
