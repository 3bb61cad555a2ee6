package coupon

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("coupon not found")

// DB matches the methods from *pgxpool.Pool that we use.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	GetActiveByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	Create(ctx context.Context, c *Coupon) error
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id string) error
}

type repo struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetActiveByCode(ctx context.Context, code string) (*Coupon, error) {
	var c Coupon
	err := r.db.QueryRow(ctx, `
		SELECT id, code, discount_amount, expiration_date, is_active
		FROM coupons WHERE code = $1 AND is_active
	`, code).Scan(&c.ID, &c.Code, &c.DiscountAmount, &c.ExpirationDate, &c.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select coupon: %w", err)
	}
	return &c, nil
}

func (r *repo) List(ctx context.Context) ([]Coupon, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, code, discount_amount, expiration_date, is_active
		FROM coupons ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("select coupons: %w", err)
	}
	defer rows.Close()

	var out []Coupon
	for rows.Next() {
		var c Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountAmount, &c.ExpirationDate, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) Create(ctx context.Context, c *Coupon) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO coupons (id, code, discount_amount, expiration_date, is_active)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Code, c.DiscountAmount, c.ExpirationDate, c.IsActive)
	if err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

func (r *repo) Update(ctx context.Context, c *Coupon) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE coupons
		SET code = $2, discount_amount = $3, expiration_date = $4, is_active = $5
		WHERE id = $1
	`, c.ID, c.Code, c.DiscountAmount, c.ExpirationDate, c.IsActive)
	if err != nil {
		return fmt.Errorf("update coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
