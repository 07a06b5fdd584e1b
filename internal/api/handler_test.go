package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesapos/mesa/internal/catalog"
	"github.com/mesapos/mesa/internal/order"
	"github.com/mesapos/mesa/internal/pricing"
	"github.com/mesapos/mesa/internal/promo"
	"github.com/mesapos/mesa/internal/transaction"
)

// --- Helpers ---

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func newTestMux(t *testing.T, promos ...promo.Promo) (*http.ServeMux, *transaction.Memory) {
	t.Helper()

	menu := catalog.NewMemory(
		catalog.MenuItem{Code: "NASI", Name: "Nasi Lemak", UnitPrice: d("10.00"), Category: catalog.CategoryFood, AvailableQty: 20},
		catalog.MenuItem{Code: "TEH", Name: "Teh Tarik", UnitPrice: d("5.00"), Category: catalog.CategoryBeverage, AvailableQty: 3},
	)
	txs := transaction.NewMemory()
	store := order.NewStore()
	svc := order.NewService(menu, promo.NewMemory(promos...), txs, store)

	mux := http.NewServeMux()
	NewHandler(menu, svc, store, txs, order.StockAvailability).Routes(mux)
	return mux, txs
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Body.String(), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func pricingOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()

	p, ok := body["pricing"].(map[string]any)
	require.True(t, ok, "pricing missing in %v", body)
	return p
}

func createOrder(t *testing.T, mux *http.ServeMux, typ string) string {
	t.Helper()

	rec, body := doJSON(t, mux, http.MethodPost, "/api/orders", `{"type":"`+typ+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id, ok := body["id"].(string)
	require.True(t, ok, "order id missing in %s", rec.Body.String())
	return id
}

func addItems(t *testing.T, mux *http.ServeMux, id, items string) map[string]any {
	t.Helper()

	rec, body := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/items", `{"items":`+items+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return body
}

// --- Tests ---

func TestListMenu(t *testing.T) {
	mux, _ := newTestMux(t)

	rec, _ := doJSON(t, mux, http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var items []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "NASI", items[0]["code"])
	assert.Equal(t, "10.00", items[0]["unit_price"])
}

func TestCreateOrder(t *testing.T) {
	mux, _ := newTestMux(t)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/orders", `{"type":"dine_in"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "D01", body["id"])
	assert.Equal(t, "dine_in", body["type"])
	assert.Equal(t, string(order.StatusPending), body["status"])
	assert.Equal(t, "0.00", pricingOf(t, body)["total"])

	rec, body = doJSON(t, mux, http.MethodPost, "/api/orders", `{"type":"take_away"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "T01", body["id"])
}

func TestCreateOrderDefaultsToDineIn(t *testing.T) {
	mux, _ := newTestMux(t)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/orders", `{}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "dine_in", body["type"])
}

func TestCreateOrderInvalidType(t *testing.T) {
	mux, _ := newTestMux(t)

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/orders", `{"type":"delivery"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderNotFound(t *testing.T) {
	mux, _ := newTestMux(t)

	rec, _ := doJSON(t, mux, http.MethodGet, "/api/orders/D99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItems(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")

	body := addItems(t, mux, id, `[{"item_code":"NASI","quantity":2},{"item_code":"TEH","quantity":1}]`)
	assert.Equal(t, "25.00", pricingOf(t, body)["subtotal"])
	assert.Equal(t, "25.00", pricingOf(t, body)["total"])

	// Same item again merges into the existing line.
	body = addItems(t, mux, id, `[{"item_code":"NASI","quantity":1}]`)
	assert.Equal(t, "35.00", pricingOf(t, body)["subtotal"])

	lines, ok := body["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 2)
}

func TestAddItemsUnknownCode(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/items",
		`{"items":[{"item_code":"BOGUS","quantity":1}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAddItemsInsufficientStock(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/items",
		`{"items":[{"item_code":"TEH","quantity":4}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestApplyDiscountPercentage(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"NASI","quantity":2},{"item_code":"TEH","quantity":1}]`)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/discounts",
		`{"kind":"percentage","scope":"order","value":"10","description":"Member"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "25.00", pricingOf(t, body)["subtotal"])
	assert.Equal(t, "22.50", pricingOf(t, body)["total"])

	discounts, ok := body["discounts"].([]any)
	require.True(t, ok)
	require.Len(t, discounts, 1)
	first, ok := discounts[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2.50", first["amount"])
}

func TestApplyDiscountFixedClamped(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"TEH","quantity":1}]`)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/discounts",
		`{"kind":"fixed","scope":"order","value":"30","description":"Voucher"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "0.00", pricingOf(t, body)["total"])
}

func TestApplyDiscountNoHeadroom(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"TEH","quantity":1}]`)

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/discounts",
		`{"kind":"percentage","scope":"order","value":"100"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/discounts",
		`{"kind":"fixed","scope":"order","value":"1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestApplyDiscountInvalidMagnitude(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"NASI","quantity":1}]`)

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/discounts",
		`{"kind":"percentage","scope":"order","value":"120"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyDiscountItemScope(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"NASI","quantity":2}]`)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/discounts",
		`{"kind":"fixed","scope":"item","item_code":"NASI","value":"3"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "17.00", pricingOf(t, body)["total"])
}

func TestRemoveDiscount(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"NASI","quantity":2},{"item_code":"TEH","quantity":1}]`)

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/discounts",
		`{"kind":"percentage","scope":"order","value":"10"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, mux, http.MethodDelete, "/api/orders/"+id+"/discounts/0", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "25.00", pricingOf(t, body)["total"])
	assert.Empty(t, body["discounts"])
}

func TestRemoveDiscountOutOfRange(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"NASI","quantity":1}]`)

	rec, _ := doJSON(t, mux, http.MethodDelete, "/api/orders/"+id+"/discounts/0", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestApplyPromo(t *testing.T) {
	mux, _ := newTestMux(t, promo.Promo{
		Code:        "WELCOME10",
		Kind:        pricing.KindPercentage,
		Scope:       pricing.OrderScope(),
		Value:       d("10"),
		Description: "10% off",
		Active:      true,
	})
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"NASI","quantity":2},{"item_code":"TEH","quantity":1}]`)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/promo", `{"code":"welcome10"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "22.50", pricingOf(t, body)["total"])

	// Second application of the same code conflicts.
	rec, _ = doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/promo", `{"code":"WELCOME10"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApplyPromoUnknownCode(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"NASI","quantity":1}]`)

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/promo", `{"code":"NOPE"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckout(t *testing.T) {
	mux, txs := newTestMux(t)
	id := createOrder(t, mux, "take_away")
	addItems(t, mux, id, `[{"item_code":"NASI","quantity":2},{"item_code":"TEH","quantity":1}]`)

	rec, body := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/checkout", `{"payment_method":"tng"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, id, body["order_id"])
	assert.Equal(t, "touch n go", body["payment_method"])
	assert.Equal(t, "25.00", body["total"])
	assert.NotEmpty(t, body["id"])

	receiptLines, ok := body["receipt"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, receiptLines)

	// Order leaves the active set after checkout.
	rec, _ = doJSON(t, mux, http.MethodGet, "/api/orders/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	now := time.Now()
	stored, err := txs.ListByDateRange(t.Context(), now.Add(-time.Minute), now.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestCheckoutInvalidPaymentMethod(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"NASI","quantity":1}]`)

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/checkout", `{"payment_method":"crypto"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelOrder(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")

	rec, _ := doJSON(t, mux, http.MethodDelete, "/api/orders/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = doJSON(t, mux, http.MethodDelete, "/api/orders/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDailyReport(t *testing.T) {
	mux, _ := newTestMux(t)
	id := createOrder(t, mux, "dine_in")
	addItems(t, mux, id, `[{"item_code":"NASI","quantity":2}]`)

	rec, _ := doJSON(t, mux, http.MethodPost, "/api/orders/"+id+"/checkout", `{"payment_method":"cash"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doJSON(t, mux, http.MethodGet, "/api/reports/daily", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), body["order_count"])
	assert.Equal(t, "20.00", body["total_sales"])

	byPayment, ok := body["by_payment"].([]any)
	require.True(t, ok)
	require.Len(t, byPayment, 1)
}

func TestDailyReportInvalidDate(t *testing.T) {
	mux, _ := newTestMux(t)

	rec, _ := doJSON(t, mux, http.MethodGet, "/api/reports/daily?date=today", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
