// Package receipt renders a checkout transaction into the fixed-width text
// layout printed at the till and archived per order.
package receipt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/catalog"
	"github.com/mesapos/mesa/internal/transaction"
)

const (
	totalWidth = 80
	nameWidth  = 45
	qtyWidth   = 10
	colWidth   = 10
)

// taxRate is the service tax applied after discounts.
var taxRate = decimal.RequireFromString("0.06")

// Render produces the receipt lines for a transaction. Items maps item
// codes to their menu entries; lines referencing an unknown code render a
// placeholder instead of failing, since the transaction is already paid.
func Render(tx *transaction.Transaction, items map[string]catalog.MenuItem) []string {
	var lines []string
	rule := strings.Repeat("=", totalWidth)
	thin := strings.Repeat("-", totalWidth)

	lines = append(lines,
		rule,
		center("RECEIPT"),
		rule,
		"Order ID: "+tx.OrderID,
		"Type: "+tx.OrderType,
		"Date: "+tx.CreatedAt.Format("2006-01-02 15:04:05"),
		"Payment Method: "+title(string(tx.PaymentMethod)),
		thin,
		fmt.Sprintf("%-*s %*s %*s %*s", nameWidth, "Item", qtyWidth, "Qty", colWidth, "Price", colWidth, "Total"),
		thin,
	)

	for _, line := range tx.Lines {
		it, ok := items[line.ItemCode]
		if !ok {
			lines = append(lines, fmt.Sprintf("%-*s %*s", nameWidth, "(unknown item "+line.ItemCode+")", qtyWidth, fmt.Sprintf("x%d", line.Quantity)))
			continue
		}
		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lines = append(lines, fmt.Sprintf("%-*s %*s %*s %*s",
			nameWidth, it.Name,
			qtyWidth, fmt.Sprintf("x%d", line.Quantity),
			colWidth, "$"+it.UnitPrice.StringFixed(2),
			colWidth, "$"+lineTotal.StringFixed(2),
		))
	}

	discountTotal := decimal.Zero
	hasDiscounts := false
	for _, disc := range tx.Discounts {
		if disc.Amount.IsZero() {
			continue
		}
		if !hasDiscounts {
			lines = append(lines, thin, "Discounts Applied:")
			hasDiscounts = true
		}
		discountTotal = discountTotal.Add(disc.Amount)
		lines = append(lines, fmt.Sprintf("- %-*s -$%s", totalWidth-15, disc.Description, disc.Amount.StringFixed(2)))
	}

	lines = append(lines, rule,
		amountLine("Subtotal:", tx.Subtotal))
	if hasDiscounts {
		lines = append(lines, amountLine("Discounts:", discountTotal.Neg()), thin)
	}

	taxable := tx.Subtotal.Sub(discountTotal)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := taxable.Mul(taxRate).Round(2)
	lines = append(lines,
		amountLine("Tax (6%):", tax),
		amountLine("TOTAL:", taxable.Add(tax)),
		rule,
	)
	return lines
}

func amountLine(label string, v decimal.Decimal) string {
	amount := "$" + v.StringFixed(2)
	if v.IsNegative() {
		amount = "-$" + v.Neg().StringFixed(2)
	}
	return fmt.Sprintf("%-*s %*s", totalWidth-colWidth-2, label, colWidth+1, amount)
}

func center(s string) string {
	pad := (totalWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
