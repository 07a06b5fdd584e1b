package api

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/catalog"
	"github.com/mesapos/mesa/internal/order"
	"github.com/mesapos/mesa/internal/pricing"
	"github.com/mesapos/mesa/internal/transaction"
)

// writeJSON sends an encoded jx buffer with the given status code.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// money encodes decimals as fixed two-decimal strings so clients never see
// float artifacts.
func money(e *jx.Encoder, v decimal.Decimal) {
	e.Str(v.StringFixed(2))
}

func encodeMenuItem(e *jx.Encoder, it catalog.MenuItem) {
	e.ObjStart()
	e.FieldStart("code")
	e.Str(it.Code)
	e.FieldStart("name")
	e.Str(it.Name)
	e.FieldStart("unit_price")
	money(e, it.UnitPrice)
	e.FieldStart("category")
	e.Str(string(it.Category))
	e.FieldStart("available_qty")
	e.Int(it.AvailableQty)
	e.ObjEnd()
}

func encodeLine(e *jx.Encoder, line pricing.Line) {
	e.ObjStart()
	e.FieldStart("item_code")
	e.Str(line.ItemCode)
	e.FieldStart("quantity")
	e.Int(line.Quantity)
	e.ObjEnd()
}

func encodeRule(e *jx.Encoder, rule pricing.Rule) {
	e.ObjStart()
	e.FieldStart("kind")
	e.Str(string(rule.Kind))
	e.FieldStart("scope")
	e.Str(string(rule.Scope.Kind))
	if rule.Scope.Kind == pricing.ScopeCategory {
		e.FieldStart("category")
		e.Str(string(rule.Scope.Category))
	}
	if rule.Scope.Kind == pricing.ScopeItem {
		e.FieldStart("item_code")
		e.Str(rule.Scope.ItemCode)
	}
	e.FieldStart("value")
	e.Str(rule.Value.String())
	e.FieldStart("description")
	e.Str(rule.Description)
	if rule.PromoCode != "" {
		e.FieldStart("promo_code")
		e.Str(rule.PromoCode)
	}
	e.FieldStart("amount")
	money(e, rule.Amount)
	e.ObjEnd()
}

func encodeApplied(e *jx.Encoder, d pricing.Applied) {
	e.ObjStart()
	e.FieldStart("description")
	e.Str(d.Description)
	e.FieldStart("amount")
	money(e, d.Amount)
	if d.ItemCode != "" {
		e.FieldStart("item_code")
		e.Str(d.ItemCode)
	}
	if d.PromoCode != "" {
		e.FieldStart("promo_code")
		e.Str(d.PromoCode)
	}
	e.ObjEnd()
}

func encodeResult(e *jx.Encoder, res pricing.Result) {
	e.ObjStart()
	e.FieldStart("subtotal")
	money(e, res.Subtotal)
	e.FieldStart("discounts")
	e.ArrStart()
	for _, d := range res.Discounts {
		encodeApplied(e, d)
	}
	e.ArrEnd()
	e.FieldStart("total")
	money(e, res.Total)
	e.ObjEnd()
}

// encodeOrder writes the order together with its priced breakdown.
func encodeOrder(e *jx.Encoder, o *order.Order, res pricing.Result) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("type")
	e.Str(string(o.Type))
	e.FieldStart("status")
	e.Str(string(o.Status))
	e.FieldStart("lines")
	e.ArrStart()
	for _, line := range o.Lines {
		encodeLine(e, line)
	}
	e.ArrEnd()
	e.FieldStart("discounts")
	e.ArrStart()
	for _, rule := range o.Discounts {
		encodeRule(e, rule)
	}
	e.ArrEnd()
	e.FieldStart("pricing")
	encodeResult(e, res)
	e.ObjEnd()
}

func encodeTransaction(e *jx.Encoder, tx *transaction.Transaction, receiptLines []string) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(tx.ID)
	e.FieldStart("order_id")
	e.Str(tx.OrderID)
	e.FieldStart("order_type")
	e.Str(tx.OrderType)
	e.FieldStart("subtotal")
	money(e, tx.Subtotal)
	e.FieldStart("total")
	money(e, tx.Total)
	e.FieldStart("payment_method")
	e.Str(string(tx.PaymentMethod))
	e.FieldStart("receipt")
	e.ArrStart()
	for _, line := range receiptLines {
		e.Str(line)
	}
	e.ArrEnd()
	e.ObjEnd()
}
