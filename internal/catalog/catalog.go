package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Category groups menu items for discount scoping.
type Category string

const (
	CategoryFood     Category = "food"
	CategoryBeverage Category = "beverage"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryFood || c == CategoryBeverage
}

// MenuItem is a single entry of the restaurant menu. Items are immutable;
// the catalog owns them.
type MenuItem struct {
	Code         string
	Name         string
	UnitPrice    decimal.Decimal
	Category     Category
	AvailableQty int
}

// Repository defines read operations for the menu catalog.
type Repository interface {
	List(ctx context.Context) ([]MenuItem, error)
	GetByCode(ctx context.Context, code string) (*MenuItem, error)
	GetByCodes(ctx context.Context, codes []string) ([]MenuItem, error)
}
