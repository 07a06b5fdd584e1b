package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/catalog"
	"github.com/mesapos/mesa/internal/pricing"
	"github.com/mesapos/mesa/internal/promo"
)

const (
	getPromoByCodeSQL = `SELECT code, kind, scope_kind, scope_category, scope_item_code, value, description, active
		FROM promos WHERE UPPER(code) = UPPER($1) AND active = TRUE`

	upsertPromoSQL = `INSERT INTO promos (code, kind, scope_kind, scope_category, scope_item_code, value, description, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE SET
			kind = EXCLUDED.kind,
			scope_kind = EXCLUDED.scope_kind,
			scope_category = EXCLUDED.scope_category,
			scope_item_code = EXCLUDED.scope_item_code,
			value = EXCLUDED.value,
			description = EXCLUDED.description,
			active = EXCLUDED.active`
)

var _ promo.Repository = (*PromoRepository)(nil)

// PromoRepository implements promo.Repository backed by PostgreSQL.
type PromoRepository struct {
	pool *pgxpool.Pool
}

// NewPromoRepository returns a PromoRepository using the given pool.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// FindByCode looks up an active promo by its code (case-insensitive).
// Returns promo.ErrNotFound when no matching active promo exists.
func (r *PromoRepository) FindByCode(ctx context.Context, code string) (*promo.Promo, error) {
	rows, err := r.pool.Query(ctx, getPromoByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding promo %q: %w", code, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPromo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, promo.ErrNotFound
		}
		return nil, fmt.Errorf("finding promo %q: %w", code, err)
	}
	return &p, nil
}

// Upsert inserts or updates a promo definition. Used by seed and ingest
// tools.
func (r *PromoRepository) Upsert(ctx context.Context, p promo.Promo) error {
	_, err := r.pool.Exec(ctx, upsertPromoSQL,
		p.Code, string(p.Kind), string(p.Scope.Kind), string(p.Scope.Category),
		p.Scope.ItemCode, p.Value, p.Description, p.Active)
	if err != nil {
		return fmt.Errorf("upserting promo %q: %w", p.Code, err)
	}
	return nil
}

func scanPromo(row pgx.CollectableRow) (promo.Promo, error) {
	var (
		p         promo.Promo
		kind      string
		scopeKind string
		scopeCat  string
		scopeItem string
		value     decimal.Decimal
	)
	err := row.Scan(&p.Code, &kind, &scopeKind, &scopeCat, &scopeItem, &value, &p.Description, &p.Active)
	p.Kind = pricing.Kind(kind)
	p.Scope = pricing.Scope{
		Kind:     pricing.ScopeKind(scopeKind),
		Category: catalog.Category(scopeCat),
		ItemCode: scopeItem,
	}
	p.Value = value
	return p, err
}
