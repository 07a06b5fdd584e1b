// Command seed-db loads menu items and promo definitions from JSON files
// into the database. It is idempotent: existing rows are updated in place.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/catalog"
	"github.com/mesapos/mesa/internal/pricing"
	"github.com/mesapos/mesa/internal/promo"
	"github.com/mesapos/mesa/internal/repository"
)

type menuItemJSON struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Category     string          `json:"category"`
	AvailableQty int             `json:"available_qty"`
}

type promoJSON struct {
	Code        string          `json:"code"`
	Kind        string          `json:"kind"`
	Scope       string          `json:"scope"`
	Category    string          `json:"category,omitempty"`
	ItemCode    string          `json:"item_code,omitempty"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	Active      bool            `json:"active"`
}

func main() {
	var (
		databaseURL string
		menuFile    string
		promosFile  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu.json", "path to menu items JSON file")
	flag.StringVar(&promosFile, "promos-file", "db/seed/promos.json", "path to promos JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile, promosFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile, promosFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedMenu(ctx, repository.NewCatalogRepository(pool), menuFile); err != nil {
		return errors.Wrap(err, "seed menu")
	}
	if err := seedPromos(ctx, repository.NewPromoRepository(pool), promosFile); err != nil {
		return errors.Wrap(err, "seed promos")
	}
	return nil
}

func seedMenu(ctx context.Context, repo *repository.CatalogRepository, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	var items []menuItemJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}

	for _, it := range items {
		cat := catalog.Category(it.Category)
		if !cat.Valid() {
			return errors.Errorf("item %s: unknown category %q", it.Code, it.Category)
		}
		if err := repo.Upsert(ctx, catalog.MenuItem{
			Code:         it.Code,
			Name:         it.Name,
			UnitPrice:    it.UnitPrice,
			Category:     cat,
			AvailableQty: it.AvailableQty,
		}); err != nil {
			return err
		}
	}

	slog.Info("menu seeded", slog.Int("items", len(items)))
	return nil
}

func seedPromos(ctx context.Context, repo *repository.PromoRepository, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	var promos []promoJSON
	if err := json.Unmarshal(data, &promos); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}

	for _, p := range promos {
		scope, err := parseScope(p)
		if err != nil {
			return err
		}
		if err := pricing.ValidateMagnitude(pricing.Kind(p.Kind), p.Value); err != nil {
			return errors.Wrapf(err, "promo %s", p.Code)
		}
		if err := repo.Upsert(ctx, promo.Promo{
			Code:        p.Code,
			Kind:        pricing.Kind(p.Kind),
			Scope:       scope,
			Value:       p.Value,
			Description: p.Description,
			Active:      p.Active,
		}); err != nil {
			return err
		}
	}

	slog.Info("promos seeded", slog.Int("promos", len(promos)))
	return nil
}

func parseScope(p promoJSON) (pricing.Scope, error) {
	switch p.Scope {
	case string(pricing.ScopeOrder):
		return pricing.OrderScope(), nil
	case string(pricing.ScopeCategory):
		cat := catalog.Category(p.Category)
		if !cat.Valid() {
			return pricing.Scope{}, errors.Errorf("promo %s: unknown category %q", p.Code, p.Category)
		}
		return pricing.CategoryScope(cat), nil
	case string(pricing.ScopeItem):
		if p.ItemCode == "" {
			return pricing.Scope{}, errors.Errorf("promo %s: item scope requires item_code", p.Code)
		}
		return pricing.ItemScope(p.ItemCode), nil
	}
	return pricing.Scope{}, errors.Errorf("promo %s: unknown scope %q", p.Code, p.Scope)
}
