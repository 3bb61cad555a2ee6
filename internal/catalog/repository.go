package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// DB matches the methods from *pgxpool.Pool that we use.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error

	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListVariants(ctx context.Context, productID string) ([]Variant, error)
	CreateVariant(ctx context.Context, v *Variant) error
}

type repo struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repo{db: db}
}

func (r *repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, COALESCE(parent_id::text, ''), description
		FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentID, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) CreateCategory(ctx context.Context, c *Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}

	var parent any
	if c.ParentID != "" {
		parent = c.ParentID
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO categories (id, name, slug, parent_id, description)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Slug, parent, c.Description)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, category_id, name, slug, description, price, is_active, created_at, updated_at
		FROM products ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
			&p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.db.QueryRow(ctx, `
		SELECT id, category_id, name, slug, description, price, is_active, created_at, updated_at
		FROM products WHERE id = $1
	`, id).Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.Description,
		&p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return &p, nil
}

func (r *repo) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO products (id, category_id, name, slug, description, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		RETURNING created_at, updated_at
	`, p.ID, p.CategoryID, p.Name, p.Slug, p.Description, p.Price).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	p.IsActive = true
	return nil
}

func (r *repo) UpdateProduct(ctx context.Context, p *Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, is_active = $5, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Price, p.IsActive)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) ListVariants(ctx context.Context, productID string) ([]Variant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, product_id, name, value, price, stock_count
		FROM product_variants WHERE product_id = $1 ORDER BY name, value
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("select variants: %w", err)
	}
	defer rows.Close()

	var out []Variant
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Value, &v.Price, &v.StockCount); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *repo) CreateVariant(ctx context.Context, v *Variant) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO product_variants (id, product_id, name, value, price, stock_count)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ID, v.ProductID, v.Name, v.Value, v.Price, v.StockCount)
	if err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}
