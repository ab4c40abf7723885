package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_AcquireRelease(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	r, err := NewRedis(ctx, RedisConfig{Address: addr})
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	key := UploadKey(uuid.NewString())
	token, ok, err := r.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = r.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, r.Release(ctx, key, "wrong"), ErrNotHeld)
	require.NoError(t, r.Release(ctx, key, token))

	_, ok, err = r.Acquire(ctx, key, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedis(ctx, RedisConfig{Address: "127.0.0.1:1"})
	assert.Error(t, err)
}
