package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrVariantNotFound   = errors.New("variant not found")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError carries how much stock was actually available
// when a reservation was rejected. errors.Is(err, ErrInsufficientStock)
// still matches.
type InsufficientStockError struct {
	VariantID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %s: requested %d, available %d",
		e.VariantID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// DB matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	GetOrCreate(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID, variantID string, quantity int) (*Item, error)
	// UpdateItem returns the updated item, or (nil, nil) when quantity 0
	// removed the item.
	UpdateItem(ctx context.Context, userID, variantID string, quantity int, priceAtTime float64) (*Item, error)
	AttachCoupon(ctx context.Context, userID, couponID string) error
}

type repo struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetOrCreate(ctx context.Context, userID string) (*Cart, error) {
	var c Cart
	err := r.db.QueryRow(ctx, `
		INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id, user_id, COALESCE(coupon_id::text, ''), created_at, updated_at
	`, uuid.NewString(), userID).Scan(&c.ID, &c.UserID, &c.CouponID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert cart: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, cart_id, variant_id, quantity, price_at_time
		FROM cart_items WHERE cart_id = $1
	`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CartID, &it.VariantID, &it.Quantity, &it.PriceAtTime); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &c, nil
}

// AddItem reserves stock at add time: the variant row is locked, the item
// quantity is incremented (price snapshot taken on first add), and the
// stock decrement is guarded by stock_count >= quantity so the count can
// never go negative, even under concurrent adds.
func (r *repo) AddItem(ctx context.Context, userID, variantID string, quantity int) (*Item, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var price float64
	var available int
	err = tx.QueryRow(ctx, `
		SELECT price, stock_count FROM product_variants WHERE id = $1 FOR UPDATE
	`, variantID).Scan(&price, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("lock variant: %w", err)
	}

	if available < quantity {
		return nil, &InsufficientStockError{VariantID: variantID, Requested: quantity, Available: available}
	}

	var cartID string
	err = tx.QueryRow(ctx, `
		INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id
	`, uuid.NewString(), userID).Scan(&cartID)
	if err != nil {
		return nil, fmt.Errorf("upsert cart: %w", err)
	}

	// price_at_time is captured at first add; an increment keeps the
	// original snapshot.
	var it Item
	err = tx.QueryRow(ctx, `
		INSERT INTO cart_items (id, cart_id, variant_id, quantity, price_at_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, variant_id, quantity, price_at_time
	`, uuid.NewString(), cartID, variantID, quantity, price).
		Scan(&it.ID, &it.CartID, &it.VariantID, &it.Quantity, &it.PriceAtTime)
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE product_variants
		SET stock_count = stock_count - $2
		WHERE id = $1 AND stock_count >= $2
	`, variantID, quantity)
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &InsufficientStockError{VariantID: variantID, Requested: quantity, Available: available}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &it, nil
}

// UpdateItem adjusts an existing reservation. The new quantity is checked
// against total_available = stock_count + current reservation, then the
// stock count is set to the remainder. Quantity 0 removes the item and
// returns the whole reservation to stock.
func (r *repo) UpdateItem(ctx context.Context, userID, variantID string, quantity int, priceAtTime float64) (*Item, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var available int
	err = tx.QueryRow(ctx, `
		SELECT stock_count FROM product_variants WHERE id = $1 FOR UPDATE
	`, variantID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVariantNotFound
		}
		return nil, fmt.Errorf("lock variant: %w", err)
	}

	var itemID string
	var current int
	err = tx.QueryRow(ctx, `
		SELECT ci.id, ci.quantity
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE c.user_id = $1 AND ci.variant_id = $2
		FOR UPDATE OF ci
	`, userID, variantID).Scan(&itemID, &current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("select cart item: %w", err)
	}

	if quantity == 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID); err != nil {
			return nil, fmt.Errorf("delete cart item: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE product_variants SET stock_count = stock_count + $2 WHERE id = $1
		`, variantID, current); err != nil {
			return nil, fmt.Errorf("restore stock: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit: %w", err)
		}
		return nil, nil
	}

	totalAvailable := available + current
	if quantity > totalAvailable {
		return nil, &InsufficientStockError{VariantID: variantID, Requested: quantity, Available: totalAvailable}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE product_variants SET stock_count = $2 WHERE id = $1
	`, variantID, totalAvailable-quantity); err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	var it Item
	err = tx.QueryRow(ctx, `
		UPDATE cart_items SET quantity = $2, price_at_time = $3
		WHERE id = $1
		RETURNING id, cart_id, variant_id, quantity, price_at_time
	`, itemID, quantity, priceAtTime).
		Scan(&it.ID, &it.CartID, &it.VariantID, &it.Quantity, &it.PriceAtTime)
	if err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &it, nil
}

func (r *repo) AttachCoupon(ctx context.Context, userID, couponID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO carts (id, user_id, coupon_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET coupon_id = EXCLUDED.coupon_id, updated_at = now()
	`, uuid.NewString(), userID, couponID)
	if err != nil {
		return fmt.Errorf("attach coupon: %w", err)
	}
	return nil
}
