package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotFound         = errors.New("order not found")
	ErrForbidden        = errors.New("order belongs to another user")
	ErrAlreadyCancelled = errors.New("order is already cancelled")
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
	CreateFromCart(ctx context.Context, userID string) (*Order, error)
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListItems(ctx context.Context, userID, orderID string) ([]Item, error)
	Cancel(ctx context.Context, userID, orderID string) error
}

type repo struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repo{db: db}
}

// CreateFromCart converts the user's cart into an order in a single
// transaction: the order row, one order item per cart item (quantity and
// price_at_time copied verbatim, never re-priced), and the cart cleared.
// Either all of it commits or none of it does.
func (r *repo) CreateFromCart(ctx context.Context, userID string) (*Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT ci.variant_id, ci.quantity, ci.price_at_time, ci.cart_id
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE c.user_id = $1
		FOR UPDATE OF ci
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}

	var cartID string
	type line struct {
		variantID   string
		quantity    int
		priceAtTime float64
	}
	var lines []line
	for rows.Next() {
		var ln line
		if err := rows.Scan(&ln.variantID, &ln.quantity, &ln.priceAtTime, &cartID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		lines = append(lines, ln)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	o := &Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		OrderStatus:   StatusPending,
		PaymentStatus: PaymentUnpaid,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, order_status, payment_status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, o.ID, o.UserID, o.OrderStatus, o.PaymentStatus).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, ln := range lines {
		it := Item{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			VariantID:   ln.variantID,
			Quantity:    ln.quantity,
			PriceAtTime: ln.priceAtTime,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, variant_id, quantity, price_at_time)
			VALUES ($1, $2, $3, $4, $5)
		`, it.ID, it.OrderID, it.VariantID, it.Quantity, it.PriceAtTime); err != nil {
			return nil, fmt.Errorf("insert order_item: %w", err)
		}
		o.Items = append(o.Items, it)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, order_status, payment_status, created_at, updated_at
		FROM orders WHERE id = $1
	`, orderID).Scan(&o.ID, &o.UserID, &o.OrderStatus, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	return &o, nil
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, order_status, payment_status, created_at, updated_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderStatus, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repo) ListItems(ctx context.Context, userID, orderID string) ([]Item, error) {
	o, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, variant_id, quantity, price_at_time
		FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VariantID, &it.Quantity, &it.PriceAtTime); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Cancel flips the order to Canceled. Reserved stock is intentionally
// left untouched; refunds and restocking are separate concerns.
func (r *repo) Cancel(ctx context.Context, userID, orderID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ownerID string
	var status Status
	err = tx.QueryRow(ctx, `
		SELECT user_id, order_status FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&ownerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("select order: %w", err)
	}

	if ownerID != userID {
		return ErrForbidden
	}
	if status == StatusCanceled {
		return ErrAlreadyCancelled
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET order_status = $2, updated_at = now() WHERE id = $1
	`, orderID, StatusCanceled); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
