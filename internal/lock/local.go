package lock

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	token   string
	expires time.Time
}

// Local is an in-process Locker used when no Redis address is configured.
type Local struct {
	mu    sync.Mutex
	held  map[string]entry
	clock func() time.Time
}

// NewLocal creates an empty in-process locker.
func NewLocal() *Local {
	return &Local{held: make(map[string]entry), clock: time.Now}
}

// Acquire implements Locker.
func (l *Local) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if e, ok := l.held[key]; ok && now.Before(e.expires) {
		return "", false, nil
	}

	token := newToken()
	l.held[key] = entry{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

// Release implements Locker.
func (l *Local) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.held[key]
	if !ok || e.token != token {
		return ErrNotHeld
	}
	delete(l.held, key)
	return nil
}
