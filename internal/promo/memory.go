package promo

import (
	"context"
	"strings"
)

var _ Repository = (*Memory)(nil)

// Memory is an in-memory Repository for tests and seed-file deployments.
// Lookup is case-insensitive; codes are stored uppercased.
type Memory struct {
	promos map[string]Promo
}

// NewMemory creates a Memory registry from the given promos.
func NewMemory(promos ...Promo) *Memory {
	m := &Memory{promos: make(map[string]Promo, len(promos))}
	for _, p := range promos {
		p.Code = strings.ToUpper(p.Code)
		m.promos[p.Code] = p
	}
	return m
}

// FindByCode returns the active promo for the given code or ErrNotFound.
func (m *Memory) FindByCode(_ context.Context, code string) (*Promo, error) {
	p, ok := m.promos[strings.ToUpper(code)]
	if !ok || !p.Active {
		return nil, ErrNotFound
	}
	return &p, nil
}
