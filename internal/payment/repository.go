package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"shop-api/internal/order"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrAlreadyPaid   = errors.New("order already paid")
)

// DB matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Record(ctx context.Context, userID, orderID string, method Method) (*Payment, error)
	ListByOrder(ctx context.Context, userID, orderID string) ([]Payment, error)
}

type repo struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repo{db: db}
}

// Record appends a payment for the user's order. The amount is the sum of
// price_at_time * quantity over the order's items, and the payment takes
// on the order's current payment status, which is then re-saved onto the
// order. There is no transition to Paid here; that gap is deliberate and
// mirrors upstream behavior.
func (r *repo) Record(ctx context.Context, userID, orderID string, method Method) (*Payment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status order.PaymentStatus
	err = tx.QueryRow(ctx, `
		SELECT payment_status FROM orders WHERE id = $1 AND user_id = $2 FOR UPDATE
	`, orderID, userID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if status == order.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	var amount float64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(price_at_time * quantity), 0)
		FROM order_items WHERE order_id = $1
	`, orderID).Scan(&amount)
	if err != nil {
		return nil, fmt.Errorf("sum order items: %w", err)
	}

	p := &Payment{
		ID:      uuid.NewString(),
		OrderID: orderID,
		Amount:  amount,
		Status:  status,
		Method:  method,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (id, order_id, amount, payment_status, payment_method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, p.ID, p.OrderID, p.Amount, p.Status, p.Method).Scan(&p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET payment_status = $2, updated_at = now() WHERE id = $1
	`, orderID, status); err != nil {
		return nil, fmt.Errorf("mirror payment status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return p, nil
}

func (r *repo) ListByOrder(ctx context.Context, userID, orderID string) ([]Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.order_id, p.amount, p.payment_status, p.payment_method, p.created_at
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		WHERE p.order_id = $1 AND o.user_id = $2
		ORDER BY p.created_at
	`, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("select payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Status, &p.Method, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
