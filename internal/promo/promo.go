// Package promo defines the promo-code registry consulted when an operator
// redeems a code against an order.
package promo

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/pricing"
)

// ErrNotFound is returned when a promo code is unknown or inactive.
var ErrNotFound = errors.New("promo code not found")

// Promo is a registered promo code: the discount rule it stands for plus
// the redeemable code itself. A code may be applied at most once per order.
type Promo struct {
	Code        string
	Kind        pricing.Kind
	Scope       pricing.Scope
	Value       decimal.Decimal
	Description string
	Active      bool
}

// Repository provides lookup of promo definitions by code.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Promo, error)
}
