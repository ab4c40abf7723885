// Package lock provides the per-account upload lock. At most one upload per account
// may be in flight; the lock expires on its own if the holder dies.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotHeld is returned by Release when the token no longer owns the key.
var ErrNotHeld = errors.New("lock not held")

// Locker acquires and releases expiring locks keyed by string.
type Locker interface {
	// Acquire tries to take key for ttl. ok is false when another holder owns it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Release frees key if token still owns it.
	Release(ctx context.Context, key, token string) error
}

// UploadKey is the lock key guarding uploads for accountID.
func UploadKey(accountID string) string {
	return "portfolio:upload:" + accountID
}

func newToken() string {
	return uuid.NewString()
}
