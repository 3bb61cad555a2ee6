package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("variant not found")

// DB matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Level is a point-in-time read of a variant's stock count.
type Level struct {
	VariantID  string `json:"variantId"`
	StockCount int    `json:"stockCount"`
}

type Repository interface {
	Available(ctx context.Context, variantID string) (Level, error)
	ListLow(ctx context.Context, threshold int) ([]Level, error)
	RefillLow(ctx context.Context, threshold, refillTo int) (int64, error)
}

type repo struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repo{db: db}
}

func (r *repo) Available(ctx context.Context, variantID string) (Level, error) {
	var lvl Level
	err := r.db.QueryRow(ctx,
		`SELECT id, stock_count FROM product_variants WHERE id = $1`,
		variantID,
	).Scan(&lvl.VariantID, &lvl.StockCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Level{}, ErrNotFound
		}
		return Level{}, fmt.Errorf("select stock: %w", err)
	}
	return lvl, nil
}

func (r *repo) ListLow(ctx context.Context, threshold int) ([]Level, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, stock_count FROM product_variants WHERE stock_count < $1`,
		threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("select low stock: %w", err)
	}
	defer rows.Close()

	var out []Level
	for rows.Next() {
		var lvl Level
		if err := rows.Scan(&lvl.VariantID, &lvl.StockCount); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		out = append(out, lvl)
	}
	return out, rows.Err()
}

// RefillLow tops every variant below threshold up to refillTo and
// reports how many rows changed. Safe to run repeatedly.
func (r *repo) RefillLow(ctx context.Context, threshold, refillTo int) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE product_variants SET stock_count = $2 WHERE stock_count < $1`,
		threshold, refillTo,
	)
	if err != nil {
		return 0, fmt.Errorf("refill stock: %w", err)
	}
	return tag.RowsAffected(), nil
}
