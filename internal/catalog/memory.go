package catalog

import (
	"context"
	"sort"
)

var _ Repository = (*Memory)(nil)

// Memory is an in-memory Repository, used by tests and by deployments that
// load the menu from a seed file at startup.
type Memory struct {
	items map[string]MenuItem
}

// NewMemory creates a Memory catalog from the given items. Later duplicates
// of the same code win.
func NewMemory(items ...MenuItem) *Memory {
	m := &Memory{items: make(map[string]MenuItem, len(items))}
	for _, it := range items {
		m.items[it.Code] = it
	}
	return m
}

// List returns all menu items ordered by code.
func (m *Memory) List(_ context.Context) ([]MenuItem, error) {
	out := make([]MenuItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// GetByCode returns the item with the given code or ErrNotFound.
func (m *Memory) GetByCode(_ context.Context, code string) (*MenuItem, error) {
	it, ok := m.items[code]
	if !ok {
		return nil, ErrNotFound
	}
	return &it, nil
}

// GetByCodes returns the items matching any of the given codes. Unknown
// codes are skipped; the caller decides whether a miss is an error.
func (m *Memory) GetByCodes(_ context.Context, codes []string) ([]MenuItem, error) {
	out := make([]MenuItem, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		if it, ok := m.items[code]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}
