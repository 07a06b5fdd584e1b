package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/catalog"
	"github.com/mesapos/mesa/internal/order"
	"github.com/mesapos/mesa/internal/pricing"
	"github.com/mesapos/mesa/internal/receipt"
	"github.com/mesapos/mesa/internal/report"
)

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	e.ArrStart()
	for _, it := range items {
		encodeMenuItem(e, it)
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	e := &jx.Encoder{}
	e.ArrStart()
	for _, o := range h.store.List() {
		res, err := h.orders.PriceOrder(r.Context(), o)
		if err != nil {
			writeError(w, r, err)
			return
		}
		encodeOrder(e, o, res)
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, e)
}

type createOrderRequest struct {
	Type string `json:"type"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	var t order.Type
	switch req.Type {
	case string(order.TypeDineIn), "":
		t = order.TypeDineIn
	case string(order.TypeTakeAway):
		t = order.TypeTakeAway
	default:
		writeBadRequest(w, "type must be dine_in or take_away")
		return
	}

	o := h.store.Create(t)
	e := &jx.Encoder{}
	encodeOrder(e, o, pricing.Result{
		Subtotal: decimal.Zero,
		Total:    decimal.Zero,
	})
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.orders.PriceOrder(r.Context(), o)
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeOrder(e, o, res)
	writeJSON(w, http.StatusOK, e)
}

type addItemsRequest struct {
	Items []struct {
		ItemCode string `json:"item_code"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
}

func (h *Handler) addItems(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req addItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if len(req.Items) == 0 {
		writeBadRequest(w, "items required")
		return
	}

	lines := make([]pricing.Line, len(req.Items))
	for i, it := range req.Items {
		lines[i] = pricing.Line{ItemCode: it.ItemCode, Quantity: it.Quantity}
	}

	if err := h.orders.AddItems(r.Context(), o, lines, h.availability); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithOrder(w, r, o)
}

type applyDiscountRequest struct {
	Kind        string          `json:"kind"`
	Scope       string          `json:"scope"`
	Category    string          `json:"category"`
	ItemCode    string          `json:"item_code"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
}

func (h *Handler) applyDiscount(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req applyDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	scope, ok := parseScope(req.Scope, req.Category, req.ItemCode)
	if !ok {
		writeBadRequest(w, "scope must be order, category or item with its payload")
		return
	}

	ctx := r.Context()
	switch req.Kind {
	case string(pricing.KindPercentage):
		_, err = h.orders.ApplyPercentage(ctx, o, scope, req.Value, req.Description)
	case string(pricing.KindFixed):
		_, err = h.orders.ApplyFixed(ctx, o, scope, req.Value, req.Description)
	default:
		writeBadRequest(w, "kind must be percentage or fixed")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithOrder(w, r, o)
}

func (h *Handler) removeDiscount(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeBadRequest(w, "discount index must be an integer")
		return
	}

	if _, err := h.orders.RemoveDiscount(o, index); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithOrder(w, r, o)
}

type applyPromoRequest struct {
	Code string `json:"code"`
}

func (h *Handler) applyPromo(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req applyPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if _, err := h.orders.ApplyPromo(r.Context(), o, req.Code); err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithOrder(w, r, o)
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	tx, err := h.orders.Checkout(r.Context(), o, req.PaymentMethod)
	if err != nil {
		writeError(w, r, err)
		return
	}

	items, err := h.menuByCode(r, tx.Lines)
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeTransaction(e, tx, receipt.Render(tx, items))
	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Get(r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	h.store.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) dailyReport(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			writeBadRequest(w, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	summary, err := report.Daily(r.Context(), h.transactions, day)
	if err != nil {
		writeError(w, r, err)
		return
	}

	e := &jx.Encoder{}
	encodeSummary(e, summary)
	writeJSON(w, http.StatusOK, e)
}

// respondWithOrder re-prices the (mutated) order and writes it back.
func (h *Handler) respondWithOrder(w http.ResponseWriter, r *http.Request, o *order.Order) {
	res, err := h.orders.PriceOrder(r.Context(), o)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e := &jx.Encoder{}
	encodeOrder(e, o, res)
	writeJSON(w, http.StatusOK, e)
}

// menuByCode loads the menu entries referenced by lines, keyed by code.
func (h *Handler) menuByCode(r *http.Request, lines []pricing.Line) (map[string]catalog.MenuItem, error) {
	codes := make([]string, len(lines))
	for i, line := range lines {
		codes[i] = line.ItemCode
	}
	fetched, err := h.menu.GetByCodes(r.Context(), codes)
	if err != nil {
		return nil, err
	}
	items := make(map[string]catalog.MenuItem, len(fetched))
	for _, it := range fetched {
		items[it.Code] = it
	}
	return items, nil
}

func parseScope(scope, category, itemCode string) (pricing.Scope, bool) {
	switch scope {
	case string(pricing.ScopeOrder), "":
		return pricing.OrderScope(), true
	case string(pricing.ScopeCategory):
		cat := catalog.Category(category)
		if !cat.Valid() {
			return pricing.Scope{}, false
		}
		return pricing.CategoryScope(cat), true
	case string(pricing.ScopeItem):
		if itemCode == "" {
			return pricing.Scope{}, false
		}
		return pricing.ItemScope(itemCode), true
	}
	return pricing.Scope{}, false
}

func encodeSummary(e *jx.Encoder, s *report.Summary) {
	e.ObjStart()
	e.FieldStart("date")
	e.Str(s.Date.Format("2006-01-02"))
	e.FieldStart("order_count")
	e.Int(s.OrderCount)
	e.FieldStart("total_sales")
	money(e, s.TotalSales)
	e.FieldStart("total_discounts")
	money(e, s.TotalDiscounts)

	e.FieldStart("by_payment")
	e.ArrStart()
	for _, pb := range s.ByPayment {
		e.ObjStart()
		e.FieldStart("method")
		e.Str(string(pb.Method))
		e.FieldStart("total")
		money(e, pb.Total)
		e.FieldStart("count")
		e.Int(pb.Count)
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("by_order_type")
	e.ArrStart()
	for _, tb := range s.ByOrderType {
		e.ObjStart()
		e.FieldStart("order_type")
		e.Str(tb.OrderType)
		e.FieldStart("total")
		money(e, tb.Total)
		e.FieldStart("count")
		e.Int(tb.Count)
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("top_items")
	e.ArrStart()
	for _, it := range s.TopItems {
		e.ObjStart()
		e.FieldStart("item_code")
		e.Str(it.ItemCode)
		e.FieldStart("quantity")
		e.Int(it.Quantity)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}
