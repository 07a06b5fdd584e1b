package order

import (
	"context"
	"slices"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/catalog"
	"github.com/mesapos/mesa/internal/pricing"
	"github.com/mesapos/mesa/internal/promo"
	"github.com/mesapos/mesa/internal/transaction"
)

// AvailabilityFunc decides whether a requested quantity of an item can be
// added, given how many units active orders have already claimed. It
// returns an InsufficientStockError (or any other error) to reject.
type AvailabilityFunc func(item catalog.MenuItem, requested, alreadyOrdered int) error

// StockAvailability is the default availability check: an item can be
// ordered while requested + already-ordered does not exceed the menu's
// available quantity.
func StockAvailability(item catalog.MenuItem, requested, alreadyOrdered int) error {
	available := item.AvailableQty - alreadyOrdered
	if requested > available {
		if available < 0 {
			available = 0
		}
		return &InsufficientStockError{ItemCode: item.Code, Requested: requested, Available: available}
	}
	return nil
}

// Service is the discount orchestrator and line manager for active orders.
// It consults the pricing engine before every mutation so that invalid or
// zero-value changes are rejected whole; an order never ends up in a
// partially-applied state.
type Service struct {
	catalog      catalog.Repository
	promos       promo.Repository
	transactions transaction.Repository
	store        *Store
}

// NewService creates a Service with the required collaborators.
func NewService(
	cat catalog.Repository,
	promos promo.Repository,
	transactions transaction.Repository,
	store *Store,
) *Service {
	return &Service{
		catalog:      cat,
		promos:       promos,
		transactions: transactions,
		store:        store,
	}
}

// PriceOrder runs the pricing engine over the order's current lines and
// discounts. It is pure with respect to the order and safe to call for
// previews as often as needed.
func (s *Service) PriceOrder(ctx context.Context, o *Order) (pricing.Result, error) {
	items, err := s.itemViews(ctx, o.Lines)
	if err != nil {
		return pricing.Result{}, err
	}
	return pricing.Price(o.Lines, o.Discounts, items)
}

// AddItems merges the requested lines into the order, summing quantities
// per item code. Every requested pair is validated (positive quantity,
// known item, availability) before anything is merged; on any failure the
// order is left untouched. After a successful merge every discount rule's
// amount snapshot is refreshed against the new lines.
func (s *Service) AddItems(ctx context.Context, o *Order, requested []pricing.Line, availability AvailabilityFunc) error {
	if len(requested) == 0 {
		return nil
	}

	codes := make([]string, len(requested))
	for i, line := range requested {
		if line.Quantity <= 0 {
			return &InvalidQuantityError{ItemCode: line.ItemCode, Quantity: line.Quantity}
		}
		codes[i] = line.ItemCode
	}

	fetched, err := s.catalog.GetByCodes(ctx, codes)
	if err != nil {
		return errors.Wrap(err, "get menu items")
	}
	byCode := make(map[string]catalog.MenuItem, len(fetched))
	for _, it := range fetched {
		byCode[it.Code] = it
	}

	for _, line := range requested {
		item, ok := byCode[line.ItemCode]
		if !ok {
			return &pricing.UnknownItemError{ItemCode: line.ItemCode}
		}
		if availability != nil {
			if err := availability(item, line.Quantity, s.store.OrderedQuantity(line.ItemCode)); err != nil {
				return err
			}
		}
	}

	o.Lines = mergeLines(o.Lines, requested)
	return s.refreshAmounts(ctx, o)
}

// ApplyPercentage applies a percentage discount of the given scope to the
// order. The value must be in (0, 100].
func (s *Service) ApplyPercentage(ctx context.Context, o *Order, scope pricing.Scope, value decimal.Decimal, description string) (*pricing.Rule, error) {
	return s.applyRule(ctx, o, pricing.Rule{
		Kind:        pricing.KindPercentage,
		Scope:       scope,
		Value:       value,
		Description: description,
	})
}

// ApplyFixed applies a fixed-amount discount of the given scope to the
// order. The value must be positive; the applied amount is clamped to the
// scope's remaining headroom.
func (s *Service) ApplyFixed(ctx context.Context, o *Order, scope pricing.Scope, value decimal.Decimal, description string) (*pricing.Rule, error) {
	return s.applyRule(ctx, o, pricing.Rule{
		Kind:        pricing.KindFixed,
		Scope:       scope,
		Value:       value,
		Description: description,
	})
}

// ApplyPromo redeems a promo code against the order. A code can be applied
// at most once per order, and an item-scope promo requires its target item
// to be on the order.
func (s *Service) ApplyPromo(ctx context.Context, o *Order, code string) (*pricing.Rule, error) {
	p, err := s.promos.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, promo.ErrNotFound) {
			return nil, promo.ErrNotFound
		}
		return nil, errors.Wrap(err, "lookup promo")
	}

	for _, rule := range o.Discounts {
		if rule.PromoCode == p.Code {
			return nil, &DuplicatePromoError{Code: p.Code}
		}
	}
	if p.Scope.Kind == pricing.ScopeItem && o.Quantity(p.Scope.ItemCode) == 0 {
		return nil, &UnapplicablePromoError{Code: p.Code, ItemCode: p.Scope.ItemCode}
	}

	return s.applyRule(ctx, o, pricing.Rule{
		Kind:        p.Kind,
		Scope:       p.Scope,
		Value:       p.Value,
		Description: p.Description,
		PromoCode:   p.Code,
	})
}

// RemoveDiscount pops the discount at the given 0-based position and
// returns it. Later rules keep the amounts they locked in at apply time;
// the freed headroom is only visible to future pricing runs.
func (s *Service) RemoveDiscount(o *Order, index int) (pricing.Rule, error) {
	if index < 0 || index >= len(o.Discounts) {
		return pricing.Rule{}, &IndexOutOfRangeError{Index: index, Len: len(o.Discounts)}
	}
	removed := o.Discounts[index]
	o.Discounts = append(o.Discounts[:index], o.Discounts[index+1:]...)
	return removed, nil
}

// Checkout prices the order once more, freezes it into a transaction
// record, persists the record and removes the order from the active set.
func (s *Service) Checkout(ctx context.Context, o *Order, method string) (*transaction.Transaction, error) {
	payment, err := transaction.ParsePaymentMethod(method)
	if err != nil {
		return nil, err
	}

	res, err := s.PriceOrder(ctx, o)
	if err != nil {
		return nil, err
	}

	tx := &transaction.Transaction{
		ID:            uuid.New().String(),
		OrderID:       o.ID,
		OrderType:     o.Type.Label(),
		Lines:         slices.Clone(o.Lines),
		Subtotal:      res.Subtotal,
		Discounts:     res.Discounts,
		Total:         res.Total,
		PaymentMethod: payment,
		CreatedAt:     time.Now(),
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, errors.Wrap(err, "create transaction")
	}

	o.Status = StatusCompleted
	s.store.Remove(o.ID)
	return tx, nil
}

// applyRule validates the candidate rule, computes its amount against the
// order's current priced state, and appends it. Earlier rules are never
// touched; appending is forward-consistent.
func (s *Service) applyRule(ctx context.Context, o *Order, rule pricing.Rule) (*pricing.Rule, error) {
	if err := pricing.ValidateMagnitude(rule.Kind, rule.Value); err != nil {
		return nil, err
	}

	items, err := s.itemViews(ctx, o.Lines)
	if err != nil {
		return nil, err
	}

	base, err := pricing.Price(o.Lines, o.Discounts, items)
	if err != nil {
		return nil, err
	}

	candidate := append(slices.Clone(o.Discounts), rule)
	priced, err := pricing.Price(o.Lines, candidate, items)
	if err != nil {
		return nil, err
	}

	amount := priced.Discounts[len(priced.Discounts)-1].Amount
	if !amount.IsPositive() {
		return nil, &NoHeadroomError{Remaining: remainingHeadroom(rule.Scope, base)}
	}

	rule.Amount = amount
	o.Discounts = append(o.Discounts, rule)
	return &o.Discounts[len(o.Discounts)-1], nil
}

// refreshAmounts re-prices the order and stores the fresh amounts back into
// each rule's snapshot. Called after line mutations.
func (s *Service) refreshAmounts(ctx context.Context, o *Order) error {
	if len(o.Discounts) == 0 {
		return nil
	}
	res, err := s.PriceOrder(ctx, o)
	if err != nil {
		return err
	}
	for i := range o.Discounts {
		o.Discounts[i].Amount = res.Discounts[i].Amount
	}
	return nil
}

// remainingHeadroom reports how much discountable value is left for the
// scope, for NoHeadroomError messaging.
func remainingHeadroom(scope pricing.Scope, base pricing.Result) decimal.Decimal {
	if scope.Kind != pricing.ScopeItem {
		return base.Total
	}
	remaining := base.ItemTotals[scope.ItemCode]
	for _, d := range base.Discounts {
		if d.ItemCode == scope.ItemCode {
			remaining = remaining.Sub(d.Amount)
		}
	}
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// itemViews loads the engine's catalog view for the given lines.
func (s *Service) itemViews(ctx context.Context, lines []pricing.Line) (map[string]pricing.Item, error) {
	codes := make([]string, len(lines))
	for i, line := range lines {
		codes[i] = line.ItemCode
	}

	fetched, err := s.catalog.GetByCodes(ctx, codes)
	if err != nil {
		return nil, errors.Wrap(err, "get menu items")
	}

	items := make(map[string]pricing.Item, len(fetched))
	for _, it := range fetched {
		items[it.Code] = pricing.Item{
			Code:      it.Code,
			UnitPrice: it.UnitPrice,
			Category:  it.Category,
		}
	}
	return items, nil
}
