package transaction

import (
	"context"
	"sync"
	"time"
)

var _ Repository = (*Memory)(nil)

// Memory is an in-memory Repository for tests.
type Memory struct {
	mu  sync.Mutex
	txs []Transaction
}

// NewMemory creates an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{}
}

// Create stores a copy of the transaction.
func (m *Memory) Create(_ context.Context, tx *Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, *tx)
	return nil
}

// ListByDateRange returns transactions created in [from, to).
func (m *Memory) ListByDateRange(_ context.Context, from, to time.Time) ([]Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Transaction
	for _, tx := range m.txs {
		if !tx.CreatedAt.Before(from) && tx.CreatedAt.Before(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}
