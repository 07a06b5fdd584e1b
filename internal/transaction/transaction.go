// Package transaction defines the frozen record produced when an order is
// checked out, and its persistence interface.
package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/pricing"
)

// PaymentMethod enumerates the accepted tender types.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTouchNGo PaymentMethod = "touch n go"
)

// touchNGoAliases are the spellings operators use for Touch 'n Go.
var touchNGoAliases = map[string]struct{}{
	"touchngo": {}, "tng": {}, "touch-n-go": {}, "touchandgo": {}, "touch n go": {},
}

// InvalidPaymentMethodError indicates an unrecognised tender type.
type InvalidPaymentMethodError struct {
	Method string
}

func (e *InvalidPaymentMethodError) Error() string {
	return fmt.Sprintf("invalid payment method %q: must be cash, card or touch n go", e.Method)
}

// ParsePaymentMethod normalises operator input into a PaymentMethod.
// Matching is case-insensitive and whitespace-tolerant.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case string(PaymentCash):
		return PaymentCash, nil
	case string(PaymentCard):
		return PaymentCard, nil
	}
	if _, ok := touchNGoAliases[s]; ok {
		return PaymentTouchNGo, nil
	}
	return "", &InvalidPaymentMethodError{Method: raw}
}

// Transaction is the immutable record of a completed checkout: the order's
// lines and priced breakdown frozen at payment time.
type Transaction struct {
	ID            string
	OrderID       string
	OrderType     string
	Lines         []pricing.Line
	Subtotal      decimal.Decimal
	Discounts     []pricing.Applied
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
}

// Repository defines persistence operations for transactions.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	ListByDateRange(ctx context.Context, from, to time.Time) ([]Transaction, error)
}
