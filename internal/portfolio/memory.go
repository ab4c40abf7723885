package portfolio

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio-builder/internal/types"
)

// MemoryStore is a Store kept in process memory. It backs tests and the "memory"
// store driver; construct one per process and pass it to NewGateway.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.PortfolioRecord
	order   []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]types.PortfolioRecord)}
}

// UpsertPortfolio implements Store.
func (m *MemoryStore) UpsertPortfolio(_ context.Context, rec *types.PortfolioRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *rec
	prev, exists := m.records[rec.AccountID]
	if exists {
		stored.ID = prev.ID
		stored.CreatedAt = prev.CreatedAt
	} else {
		m.order = append(m.order, rec.AccountID)
	}
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}
	m.records[rec.AccountID] = stored
	return nil
}

// GetPortfolioByAccount implements Store.
func (m *MemoryStore) GetPortfolioByAccount(_ context.Context, accountID string) (*types.PortfolioRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[accountID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// ListPortfolioRecords implements Store, in insertion order.
func (m *MemoryStore) ListPortfolioRecords(_ context.Context) ([]types.PortfolioRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.PortfolioRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id])
	}
	return out, nil
}
