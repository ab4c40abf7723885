package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryUsers()

	id, err := m.CreateUser(ctx, "Jane", " Jane@Example.com ", "candidate", "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	_, err = m.CreateUser(ctx, "Other", "jane@example.com", "employer", "Acme")
	assert.Error(t, err, "e-mail is unique ignoring case")

	exists, err := m.CheckEmailExists(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	u, err := m.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Jane@Example.com", u.Email)
	assert.False(t, u.PasswordSet)

	require.NoError(t, m.UpdatePassword(ctx, id, "hash"))
	u, err = m.GetUser(ctx, id)
	require.NoError(t, err)
	assert.True(t, u.PasswordSet)
	assert.Equal(t, "hash", u.PasswordHash)

	assert.Error(t, m.UpdatePassword(ctx, uuid.New(), "hash"))

	missing, err := m.GetUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	none, err := m.GetUserByEmail(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, none)
}
