package db

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryUsers keeps accounts in process memory with the same method set as DB. It backs
// the "memory" store driver and tests.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[uuid.UUID]User
}

// NewMemoryUsers creates an empty account store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[uuid.UUID]User)}
}

// CreateUser implements the DB method of the same name.
func (m *MemoryUsers) CreateUser(_ context.Context, name, email, role, companyName string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.TrimSpace(email)
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return uuid.Nil, fmt.Errorf("failed to create user: duplicate email %s", email)
		}
	}

	now := time.Now().UTC()
	u := User{
		ID:          uuid.New(),
		Name:        name,
		Email:       email,
		Role:        role,
		CompanyName: companyName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.users[u.ID] = u
	return u.ID, nil
}

// UpdatePassword implements the DB method of the same name.
func (m *MemoryUsers) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	u.UpdatedAt = time.Now().UTC()
	m.users[userID] = u
	return nil
}

// GetUser implements the DB method of the same name.
func (m *MemoryUsers) GetUser(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetUserByEmail implements the DB method of the same name.
func (m *MemoryUsers) GetUserByEmail(_ context.Context, email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

// CheckEmailExists implements the DB method of the same name.
func (m *MemoryUsers) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}
