package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/catalog"
)

const (
	listMenuItemsSQL = `SELECT code, name, unit_price, category, available_qty
		FROM menu_items ORDER BY code`

	getMenuItemSQL = `SELECT code, name, unit_price, category, available_qty
		FROM menu_items WHERE code = $1`

	getMenuItemsSQL = `SELECT code, name, unit_price, category, available_qty
		FROM menu_items WHERE code = ANY($1)`

	upsertMenuItemSQL = `INSERT INTO menu_items (code, name, unit_price, category, available_qty)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			unit_price = EXCLUDED.unit_price,
			category = EXCLUDED.category,
			available_qty = EXCLUDED.available_qty`
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository backed by PostgreSQL.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a CatalogRepository using the given pool.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// List returns the full menu ordered by item code.
func (r *CatalogRepository) List(ctx context.Context) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listMenuItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetByCode returns a single menu item or catalog.ErrNotFound.
func (r *CatalogRepository) GetByCode(ctx context.Context, code string) (*catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemSQL, code)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %q: %w", code, err)
	}

	it, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("getting menu item %q: %w", code, err)
	}
	return &it, nil
}

// GetByCodes returns the menu items matching any of the given codes.
func (r *CatalogRepository) GetByCodes(ctx context.Context, codes []string) ([]catalog.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemsSQL, codes)
	if err != nil {
		return nil, fmt.Errorf("getting menu items by codes: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// Upsert inserts or updates a menu item. Used by the seed tool.
func (r *CatalogRepository) Upsert(ctx context.Context, it catalog.MenuItem) error {
	_, err := r.pool.Exec(ctx, upsertMenuItemSQL,
		it.Code, it.Name, it.UnitPrice, string(it.Category), it.AvailableQty)
	if err != nil {
		return fmt.Errorf("upserting menu item %q: %w", it.Code, err)
	}
	return nil
}

func scanMenuItem(row pgx.CollectableRow) (catalog.MenuItem, error) {
	var (
		it       catalog.MenuItem
		price    decimal.Decimal
		category string
		qty      int32
	)
	err := row.Scan(&it.Code, &it.Name, &price, &category, &qty)
	it.UnitPrice = price
	it.Category = catalog.Category(category)
	it.AvailableQty = int(qty)
	return it, err
}
