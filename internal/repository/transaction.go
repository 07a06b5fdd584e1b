package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mesapos/mesa/internal/pricing"
	"github.com/mesapos/mesa/internal/transaction"
)

const (
	createTransactionSQL = `INSERT INTO transactions
		(id, order_id, order_type, lines, subtotal, discounts, total, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	listTransactionsSQL = `SELECT id, order_id, order_type, lines, subtotal, discounts, total, payment_method, created_at
		FROM transactions WHERE created_at >= $1 AND created_at < $2 ORDER BY created_at`
)

var _ transaction.Repository = (*TransactionRepository)(nil)

// TransactionRepository implements transaction.Repository backed by
// PostgreSQL. Lines and discount breakdowns are serialized to JSONB; the
// monetary columns stay NUMERIC so reports can aggregate in SQL if needed.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository returns a TransactionRepository using the pool.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// lineJSON is the stored form of a pricing.Line.
type lineJSON struct {
	ItemCode string `json:"item_code"`
	Quantity int    `json:"quantity"`
}

// appliedJSON is the stored form of a pricing.Applied.
type appliedJSON struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ItemCode    string          `json:"item_code,omitempty"`
	PromoCode   string          `json:"promo_code,omitempty"`
}

// Create persists a checkout record.
func (r *TransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	lines := make([]lineJSON, len(tx.Lines))
	for i, l := range tx.Lines {
		lines[i] = lineJSON{ItemCode: l.ItemCode, Quantity: l.Quantity}
	}
	linesData, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshaling transaction lines: %w", err)
	}

	discounts := make([]appliedJSON, len(tx.Discounts))
	for i, d := range tx.Discounts {
		discounts[i] = appliedJSON(d)
	}
	discountsData, err := json.Marshal(discounts)
	if err != nil {
		return fmt.Errorf("marshaling transaction discounts: %w", err)
	}

	_, err = r.pool.Exec(ctx, createTransactionSQL,
		tx.ID, tx.OrderID, tx.OrderType, linesData, tx.Subtotal,
		discountsData, tx.Total, string(tx.PaymentMethod), tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction %q: %w", tx.ID, err)
	}
	return nil
}

// ListByDateRange returns transactions created in [from, to) ordered by
// creation time.
func (r *TransactionRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]transaction.Transaction, error) {
	rows, err := r.pool.Query(ctx, listTransactionsSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return pgx.CollectRows(rows, scanTransaction)
}

func scanTransaction(row pgx.CollectableRow) (transaction.Transaction, error) {
	var (
		tx            transaction.Transaction
		linesData     []byte
		discountsData []byte
		subtotal      decimal.Decimal
		total         decimal.Decimal
		method        string
	)
	if err := row.Scan(&tx.ID, &tx.OrderID, &tx.OrderType, &linesData,
		&subtotal, &discountsData, &total, &method, &tx.CreatedAt); err != nil {
		return tx, err
	}

	var lines []lineJSON
	if err := json.Unmarshal(linesData, &lines); err != nil {
		return tx, fmt.Errorf("unmarshaling transaction lines: %w", err)
	}
	tx.Lines = make([]pricing.Line, len(lines))
	for i, l := range lines {
		tx.Lines[i] = pricing.Line{ItemCode: l.ItemCode, Quantity: l.Quantity}
	}

	var discounts []appliedJSON
	if err := json.Unmarshal(discountsData, &discounts); err != nil {
		return tx, fmt.Errorf("unmarshaling transaction discounts: %w", err)
	}
	tx.Discounts = make([]pricing.Applied, len(discounts))
	for i, d := range discounts {
		tx.Discounts[i] = pricing.Applied(d)
	}

	tx.Subtotal = subtotal
	tx.Total = total
	tx.PaymentMethod = transaction.PaymentMethod(method)
	return tx, nil
}
