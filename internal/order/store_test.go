package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesapos/mesa/internal/pricing"
)

func TestStoreCreateIDs(t *testing.T) {
	s := NewStore()

	assert.Equal(t, "D01", s.Create(TypeDineIn).ID)
	assert.Equal(t, "T01", s.Create(TypeTakeAway).ID)
	assert.Equal(t, "D02", s.Create(TypeDineIn).ID)
	assert.Equal(t, "T02", s.Create(TypeTakeAway).ID)
}

func TestStoreCreateDefaults(t *testing.T) {
	s := NewStore()
	o := s.Create(TypeDineIn)

	assert.Equal(t, StatusPending, o.Status)
	assert.Empty(t, o.Lines)
	assert.Empty(t, o.Discounts)
	assert.False(t, o.CreatedAt.IsZero())
}

func TestStoreGetAndRemove(t *testing.T) {
	s := NewStore()
	o := s.Create(TypeTakeAway)

	got, err := s.Get(o.ID)
	require.NoError(t, err)
	assert.Same(t, o, got)

	s.Remove(o.ID)
	_, err = s.Get(o.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreList(t *testing.T) {
	s := NewStore()
	s.Create(TypeTakeAway)
	s.Create(TypeDineIn)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "D01", list[0].ID)
	assert.Equal(t, "T01", list[1].ID)
}

func TestStoreOrderedQuantity(t *testing.T) {
	s := NewStore()
	a := s.Create(TypeDineIn)
	a.Lines = []pricing.Line{{ItemCode: "A", Quantity: 2}}
	b := s.Create(TypeTakeAway)
	b.Lines = []pricing.Line{{ItemCode: "A", Quantity: 3}, {ItemCode: "B", Quantity: 1}}

	assert.Equal(t, 5, s.OrderedQuantity("A"))
	assert.Equal(t, 1, s.OrderedQuantity("B"))
	assert.Equal(t, 0, s.OrderedQuantity("C"))
}

func TestMergeLinesPreservesOrder(t *testing.T) {
	lines := mergeLines(
		[]pricing.Line{{ItemCode: "A", Quantity: 1}, {ItemCode: "B", Quantity: 2}},
		[]pricing.Line{{ItemCode: "B", Quantity: 1}, {ItemCode: "C", Quantity: 4}},
	)

	assert.Equal(t, []pricing.Line{
		{ItemCode: "A", Quantity: 1},
		{ItemCode: "B", Quantity: 3},
		{ItemCode: "C", Quantity: 4},
	}, lines)
}
