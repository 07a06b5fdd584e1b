package pricing

import (
	"github.com/shopspring/decimal"
)

var zero = decimal.Zero

// Applied is the priced outcome of a single rule, in application order.
// ItemCode and PromoCode are copied from the rule when present.
type Applied struct {
	Description string
	Amount      decimal.Decimal
	ItemCode    string
	PromoCode   string
}

// Result is a full priced breakdown of an order. Total always equals
// Subtotal minus the sum of all Applied amounts and is never negative.
type Result struct {
	Subtotal   decimal.Decimal
	Discounts  []Applied
	Total      decimal.Decimal
	ItemTotals map[string]decimal.Decimal
}

// DiscountTotal returns the sum of all applied discount amounts.
func (r Result) DiscountTotal() decimal.Decimal {
	sum := zero
	for _, d := range r.Discounts {
		sum = sum.Add(d.Amount)
	}
	return sum
}

// Price computes the priced breakdown of an order: per-item line totals,
// the subtotal, and every rule's discount amount in application order.
//
// Rules are not independent: each rule's clamp depends on what earlier
// rules already consumed. Item-scope rules are clamped by the item's
// remaining line value; category and order scope rules are clamped by the
// running total. Every amount is additionally capped by the running total
// so the final total can never go negative, and floored at zero.
//
// Price is pure: it mutates neither lines nor rules, and repeated calls on
// unchanged inputs yield identical results.
func Price(lines []Line, rules []Rule, items map[string]Item) (Result, error) {
	itemTotals := make(map[string]decimal.Decimal, len(lines))
	subtotal := zero
	for _, line := range lines {
		it, ok := items[line.ItemCode]
		if !ok {
			return Result{}, &UnknownItemError{ItemCode: line.ItemCode}
		}
		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		itemTotals[line.ItemCode] = itemTotals[line.ItemCode].Add(lineTotal)
		subtotal = subtotal.Add(lineTotal)
	}

	running := subtotal
	// Per-item amounts already consumed by earlier rules in this walk.
	consumed := make(map[string]decimal.Decimal)
	applied := make([]Applied, 0, len(rules))

	for _, rule := range rules {
		var amount decimal.Decimal

		switch rule.Scope.Kind {
		case ScopeItem:
			code := rule.Scope.ItemCode
			base, onOrder := itemTotals[code]
			if !onOrder {
				// Target item is not on the order; the rule contributes nothing.
				amount = zero
				break
			}
			headroom := base.Sub(consumed[code])
			amount = decimal.Min(rawAmount(rule, base), headroom, running)

		case ScopeCategory:
			base := zero
			for code, total := range itemTotals {
				if items[code].Category == rule.Scope.Category {
					base = base.Add(total)
				}
			}
			amount = decimal.Min(rawAmount(rule, base), running)

		default:
			amount = decimal.Min(rawAmount(rule, subtotal), running)
		}

		amount = floorAtZero(amount).Round(2)
		if rule.Scope.Kind == ScopeItem {
			consumed[rule.Scope.ItemCode] = consumed[rule.Scope.ItemCode].Add(amount)
		}
		running = running.Sub(amount)

		applied = append(applied, Applied{
			Description: rule.Description,
			Amount:      amount,
			ItemCode:    rule.Scope.ItemCode,
			PromoCode:   rule.PromoCode,
		})
	}

	return Result{
		Subtotal:   subtotal,
		Discounts:  applied,
		Total:      running,
		ItemTotals: itemTotals,
	}, nil
}

// rawAmount computes the unclamped discount amount against the base value.
func rawAmount(rule Rule, base decimal.Decimal) decimal.Decimal {
	if rule.Kind == KindPercentage {
		return base.Mul(rule.Value).Div(hundred)
	}
	return rule.Value
}

// floorAtZero clamps negative values to zero.
func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d
}
