// Package pricing implements the order pricing engine: line totals, ordered
// discount application with per-scope headroom clamping, and magnitude
// validation for discount rules.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/catalog"
)

// Kind enumerates the supported discount magnitudes.
type Kind string

const (
	// KindPercentage discounts a percentage of the scope's base value.
	KindPercentage Kind = "percentage"
	// KindFixed discounts a fixed monetary amount, capped at the scope's
	// remaining value.
	KindFixed Kind = "fixed"
)

// ScopeKind enumerates the subsets of an order a discount applies to.
type ScopeKind string

const (
	ScopeOrder    ScopeKind = "order"
	ScopeCategory ScopeKind = "category"
	ScopeItem     ScopeKind = "item"
)

// Scope is a tagged variant describing what part of the order a rule is
// computed against. Category is populated only for ScopeCategory, ItemCode
// only for ScopeItem.
type Scope struct {
	Kind     ScopeKind
	Category catalog.Category
	ItemCode string
}

// OrderScope targets the whole order.
func OrderScope() Scope {
	return Scope{Kind: ScopeOrder}
}

// CategoryScope targets every line whose item belongs to the category.
func CategoryScope(c catalog.Category) Scope {
	return Scope{Kind: ScopeCategory, Category: c}
}

// ItemScope targets the lines of a single menu item.
func ItemScope(code string) Scope {
	return Scope{Kind: ScopeItem, ItemCode: code}
}

// Rule is one applied discount on an order. Rules are append-only: once on
// an order they are never mutated in place, only popped.
//
// Amount is the currency amount this rule contributed when it was applied.
// It is refreshed whenever the order's lines change, but popping an earlier
// rule does not rewrite it; only future pricing runs see the freed headroom.
type Rule struct {
	Kind        Kind
	Scope       Scope
	Value       decimal.Decimal
	Description string
	PromoCode   string
	Amount      decimal.Decimal
}

// Line is one order line: a menu item reference and a positive quantity.
// An order holds at most one line per item code; adding items merges by
// code with quantities summed.
type Line struct {
	ItemCode string
	Quantity int
}

// Item is the engine's view of a menu item, decoupled from catalog storage.
type Item struct {
	Code      string
	UnitPrice decimal.Decimal
	Category  catalog.Category
}

// UnknownItemError indicates an order line references an item code absent
// from the catalog. This is a data-integrity problem between the order and
// the catalog, not operator input error.
type UnknownItemError struct {
	ItemCode string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("item %s not found in catalog", e.ItemCode)
}

// InvalidMagnitudeError indicates a discount value outside its allowed
// range: percentages must be in (0, 100], fixed amounts must be positive.
type InvalidMagnitudeError struct {
	Kind  Kind
	Value decimal.Decimal
}

func (e *InvalidMagnitudeError) Error() string {
	if e.Kind == KindPercentage {
		return fmt.Sprintf("percentage must be in (0, 100], got %s", e.Value)
	}
	return fmt.Sprintf("fixed discount must be positive, got %s", e.Value)
}

var hundred = decimal.NewFromInt(100)

// ValidateMagnitude checks that value is within range for the given kind.
func ValidateMagnitude(kind Kind, value decimal.Decimal) error {
	switch kind {
	case KindPercentage:
		if value.IsPositive() && value.LessThanOrEqual(hundred) {
			return nil
		}
	case KindFixed:
		if value.IsPositive() {
			return nil
		}
	}
	return &InvalidMagnitudeError{Kind: kind, Value: value}
}
