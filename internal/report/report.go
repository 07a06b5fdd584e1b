// Package report aggregates completed transactions into sales summaries.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/transaction"
)

// PaymentBreakdown is the sales volume taken through one tender type.
type PaymentBreakdown struct {
	Method transaction.PaymentMethod
	Total  decimal.Decimal
	Count  int
}

// TypeBreakdown is the sales volume for one order type (dine-in/take-away).
type TypeBreakdown struct {
	OrderType string
	Total     decimal.Decimal
	Count     int
}

// ItemSales is the total quantity sold of one menu item.
type ItemSales struct {
	ItemCode string
	Quantity int
}

// Summary is a full sales summary for a reporting window.
type Summary struct {
	Date           time.Time
	OrderCount     int
	TotalSales     decimal.Decimal
	TotalDiscounts decimal.Decimal
	ByPayment      []PaymentBreakdown
	ByOrderType    []TypeBreakdown
	TopItems       []ItemSales
}

// topItemLimit bounds the best-sellers list.
const topItemLimit = 5

// Daily builds the sales summary for the calendar day containing the given
// time, in that time's location.
func Daily(ctx context.Context, repo transaction.Repository, day time.Time) (*Summary, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)

	txs, err := repo.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	s := Summarize(txs)
	s.Date = from
	return s, nil
}

// Summarize aggregates the given transactions. Discounts given are derived
// as subtotal minus total, so the figure stays consistent with the frozen
// pricing even if individual discount entries were trimmed.
func Summarize(txs []transaction.Transaction) *Summary {
	s := &Summary{
		OrderCount:     len(txs),
		TotalSales:     decimal.Zero,
		TotalDiscounts: decimal.Zero,
	}

	payments := make(map[transaction.PaymentMethod]*PaymentBreakdown)
	types := make(map[string]*TypeBreakdown)
	itemQty := make(map[string]int)

	for _, tx := range txs {
		s.TotalSales = s.TotalSales.Add(tx.Total)
		s.TotalDiscounts = s.TotalDiscounts.Add(tx.Subtotal.Sub(tx.Total))

		pb, ok := payments[tx.PaymentMethod]
		if !ok {
			pb = &PaymentBreakdown{Method: tx.PaymentMethod, Total: decimal.Zero}
			payments[tx.PaymentMethod] = pb
		}
		pb.Total = pb.Total.Add(tx.Total)
		pb.Count++

		tb, ok := types[tx.OrderType]
		if !ok {
			tb = &TypeBreakdown{OrderType: tx.OrderType, Total: decimal.Zero}
			types[tx.OrderType] = tb
		}
		tb.Total = tb.Total.Add(tx.Total)
		tb.Count++

		for _, line := range tx.Lines {
			itemQty[line.ItemCode] += line.Quantity
		}
	}

	for _, pb := range payments {
		s.ByPayment = append(s.ByPayment, *pb)
	}
	sort.Slice(s.ByPayment, func(i, j int) bool { return s.ByPayment[i].Method < s.ByPayment[j].Method })

	for _, tb := range types {
		s.ByOrderType = append(s.ByOrderType, *tb)
	}
	sort.Slice(s.ByOrderType, func(i, j int) bool { return s.ByOrderType[i].OrderType < s.ByOrderType[j].OrderType })

	for code, qty := range itemQty {
		s.TopItems = append(s.TopItems, ItemSales{ItemCode: code, Quantity: qty})
	}
	sort.Slice(s.TopItems, func(i, j int) bool {
		if s.TopItems[i].Quantity != s.TopItems[j].Quantity {
			return s.TopItems[i].Quantity > s.TopItems[j].Quantity
		}
		return s.TopItems[i].ItemCode < s.TopItems[j].ItemCode
	})
	if len(s.TopItems) > topItemLimit {
		s.TopItems = s.TopItems[:topItemLimit]
	}

	return s
}
