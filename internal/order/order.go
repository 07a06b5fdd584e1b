// Package order holds the mutable order entity, the active-orders store,
// and the discount orchestrator that applies and removes discount rules
// against orders.
package order

import (
	"time"

	"github.com/mesapos/mesa/internal/pricing"
)

// Type distinguishes dine-in from take-away orders. It determines the
// order's ID prefix and is carried through to the transaction record.
type Type string

const (
	TypeDineIn   Type = "dine_in"
	TypeTakeAway Type = "take_away"
)

// Label returns the human-readable form used on receipts and reports.
func (t Type) Label() string {
	if t == TypeDineIn {
		return "Dine-In"
	}
	return "Take Away"
}

// Status is the order lifecycle tag. Pricing treats it as opaque.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready"
	StatusCompleted Status = "Completed"
)

// Order is an accumulating order under construction: merged line items plus
// the ordered sequence of applied discount rules. Application order of the
// rules is significant; see pricing.Price.
type Order struct {
	ID        string
	Type      Type
	Lines     []pricing.Line
	Discounts []pricing.Rule
	Status    Status
	CreatedAt time.Time
}

// Quantity returns the ordered quantity of the given item, 0 if absent.
func (o *Order) Quantity(itemCode string) int {
	for _, line := range o.Lines {
		if line.ItemCode == itemCode {
			return line.Quantity
		}
	}
	return 0
}

// mergeLines folds additions into lines, summing quantities per item code.
// Existing line positions are preserved; new items append in input order.
func mergeLines(lines, additions []pricing.Line) []pricing.Line {
	merged := make([]pricing.Line, len(lines))
	copy(merged, lines)

	index := make(map[string]int, len(merged))
	for i, line := range merged {
		index[line.ItemCode] = i
	}

	for _, add := range additions {
		if i, ok := index[add.ItemCode]; ok {
			merged[i].Quantity += add.Quantity
			continue
		}
		index[add.ItemCode] = len(merged)
		merged = append(merged, add)
	}
	return merged
}
