package order

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when an order ID is not in the active set.
var ErrNotFound = errors.New("order not found")

// InvalidQuantityError indicates a requested line has a non-positive quantity.
type InvalidQuantityError struct {
	ItemCode string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be positive for item %s, got %d", e.ItemCode, e.Quantity)
}

// InsufficientStockError indicates the availability check rejected a
// requested quantity.
type InsufficientStockError struct {
	ItemCode  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d of item %s available, cannot order %d", e.Available, e.ItemCode, e.Requested)
}

// NoHeadroomError indicates a discount would contribute nothing because its
// scope is already fully discounted. Remaining carries the headroom left,
// for operator messaging.
type NoHeadroomError struct {
	Remaining decimal.Decimal
}

func (e *NoHeadroomError) Error() string {
	return fmt.Sprintf("scope already fully discounted (remaining value: %s)", e.Remaining.StringFixed(2))
}

// DuplicatePromoError indicates the promo code is already on the order.
type DuplicatePromoError struct {
	Code string
}

func (e *DuplicatePromoError) Error() string {
	return fmt.Sprintf("promo code %s has already been applied", e.Code)
}

// UnapplicablePromoError indicates an item-scope promo targets an item that
// is not on the order.
type UnapplicablePromoError struct {
	Code     string
	ItemCode string
}

func (e *UnapplicablePromoError) Error() string {
	return fmt.Sprintf("promo %s requires item %s, which is not on the order", e.Code, e.ItemCode)
}

// IndexOutOfRangeError indicates a discount index outside the order's
// discount sequence.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("discount index %d out of range (order has %d discounts)", e.Index, e.Len)
}
