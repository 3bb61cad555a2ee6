package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username or email already taken")
)

// DB matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Create(ctx context.Context, u *User, passwordHash string) error
	GetByUsername(ctx context.Context, username string) (*User, string, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

type repo struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, u *User, passwordHash string) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name, is_active, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
		RETURNING created_at
	`, u.ID, u.Username, u.Email, passwordHash, u.FirstName, u.LastName, u.IsSuperuser).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.IsActive = true
	return nil
}

func (r *repo) GetByUsername(ctx context.Context, username string) (*User, string, error) {
	var u User
	var hash string
	err := r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, first_name, last_name, is_active, is_superuser, created_at
		FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.Email, &hash, &u.FirstName, &u.LastName, &u.IsActive, &u.IsSuperuser, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("select user: %w", err)
	}
	return &u, hash, nil
}

func (r *repo) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx, `
		SELECT id, username, email, first_name, last_name, is_active, is_superuser, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.IsSuperuser, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}
