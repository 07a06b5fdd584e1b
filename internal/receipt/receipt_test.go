package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesapos/mesa/internal/catalog"
	"github.com/mesapos/mesa/internal/pricing"
	"github.com/mesapos/mesa/internal/transaction"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func testTx() *transaction.Transaction {
	return &transaction.Transaction{
		ID:        "tx-1",
		OrderID:   "D01",
		OrderType: "Dine-In",
		Lines: []pricing.Line{
			{ItemCode: "A", Quantity: 2},
			{ItemCode: "B", Quantity: 1},
		},
		Subtotal: d("25"),
		Discounts: []pricing.Applied{
			{Description: "10% off entire order", Amount: d("2.50")},
		},
		Total:         d("22.50"),
		PaymentMethod: transaction.PaymentCash,
		CreatedAt:     time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC),
	}
}

func testItems() map[string]catalog.MenuItem {
	return map[string]catalog.MenuItem{
		"A": {Code: "A", Name: "Nasi Lemak", UnitPrice: d("10"), Category: catalog.CategoryFood},
		"B": {Code: "B", Name: "Iced Tea", UnitPrice: d("5"), Category: catalog.CategoryBeverage},
	}
}

func TestRender(t *testing.T) {
	lines := Render(testTx(), testItems())
	text := strings.Join(lines, "\n")

	assert.Contains(t, text, "Order ID: D01")
	assert.Contains(t, text, "Type: Dine-In")
	assert.Contains(t, text, "Payment Method: Cash")
	assert.Contains(t, text, "Nasi Lemak")
	assert.Contains(t, text, "$20.00")
	assert.Contains(t, text, "10% off entire order")
	assert.Contains(t, text, "$25.00")
	// Tax: 6% of 22.50 = 1.35; grand total 23.85.
	assert.Contains(t, text, "$1.35")
	assert.Contains(t, text, "$23.85")
}

func TestRenderZeroAmountDiscountsOmitted(t *testing.T) {
	tx := testTx()
	tx.Discounts = append(tx.Discounts, pricing.Applied{Description: "exhausted promo", Amount: d("0")})

	text := strings.Join(Render(tx, testItems()), "\n")
	assert.NotContains(t, text, "exhausted promo")
}

func TestRenderTaxFloorsAtZero(t *testing.T) {
	tx := testTx()
	tx.Discounts = []pricing.Applied{{Description: "on the house", Amount: d("25")}}
	tx.Total = d("0")

	lines := Render(tx, testItems())
	text := strings.Join(lines, "\n")
	assert.Contains(t, text, "$0.00")
	assert.NotContains(t, text, "-$0.0") // tax never negative

	for _, line := range lines {
		require.LessOrEqual(t, len(line), 80)
	}
}

func TestRenderUnknownItemPlaceholder(t *testing.T) {
	tx := testTx()
	tx.Lines = append(tx.Lines, pricing.Line{ItemCode: "GONE", Quantity: 1})

	text := strings.Join(Render(tx, testItems()), "\n")
	assert.Contains(t, text, "unknown item GONE")
}
