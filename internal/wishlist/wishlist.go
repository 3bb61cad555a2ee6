package wishlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrAlreadyAdded = errors.New("product already in wishlist")

type Item struct {
	ID        string `json:"wishlistItemId"`
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
}

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Add(ctx context.Context, it *Item) error
	ListByUser(ctx context.Context, userID string) ([]Item, error)
}

type repo struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repo{db: db}
}

func (r *repo) Add(ctx context.Context, it *Item) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO wishlist_items (id, user_id, product_id)
		VALUES ($1, $2, $3)
	`, it.ID, it.UserID, it.ProductID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyAdded
		}
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, product_id FROM wishlist_items WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select wishlist: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.UserID, &it.ProductID); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
