package order

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store is the active-orders collection: every order that has been created
// but not yet checked out or cancelled. It replaces the process-wide order
// map of the legacy system with an explicit, mutex-guarded value that is
// passed to everything needing it. One Store per process, single writer.
type Store struct {
	mu       sync.Mutex
	orders   map[string]*Order
	dineIn   int
	takeAway int
}

// NewStore creates an empty Store. ID counters start at 1.
func NewStore() *Store {
	return &Store{orders: make(map[string]*Order)}
}

// Create registers a new empty Pending order of the given type and returns
// it. Dine-in orders are numbered D01, D02, ...; take-away T01, T02, ...
func (s *Store) Create(t Type) *Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	if t == TypeDineIn {
		s.dineIn++
		id = fmt.Sprintf("D%02d", s.dineIn)
	} else {
		s.takeAway++
		id = fmt.Sprintf("T%02d", s.takeAway)
	}

	o := &Order{
		ID:        id,
		Type:      t,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	s.orders[id] = o
	return o
}

// Get returns the active order with the given ID or ErrNotFound.
func (s *Store) Get(id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

// Remove deletes the order from the active set. Removing an unknown ID is
// a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, id)
}

// List returns the active orders sorted by ID.
func (s *Store) List() []*Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OrderedQuantity returns the total quantity of an item across all active
// orders. Availability checks use it to reconcile stock against demand that
// has not yet checked out.
func (s *Store) OrderedQuantity(itemCode string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, o := range s.orders {
		total += o.Quantity(itemCode)
	}
	return total
}
