package shipping

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("shipping address not found")
	ErrForbidden = errors.New("shipping address belongs to another user")
)

type Address struct {
	ID           string `json:"addressId"`
	UserID       string `json:"userId"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	PostalCode   string `json:"postalCode"`
	PhoneNumber  string `json:"phoneNumber"`
}

type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Create(ctx context.Context, a *Address) error
	ListByUser(ctx context.Context, userID string) ([]Address, error)
	Update(ctx context.Context, userID string, a *Address) error
	Delete(ctx context.Context, userID, addressID string) error
}

type repo struct {
	db DB
}

func NewRepository(db DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, a *Address) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO shipping_addresses
			(id, user_id, address_line1, address_line2, city, state, country, postal_code, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.UserID, a.AddressLine1, a.AddressLine2, a.City, a.State, a.Country, a.PostalCode, a.PhoneNumber)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]Address, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, address_line1, address_line2, city, state, country, postal_code, phone_number
		FROM shipping_addresses WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select addresses: %w", err)
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.AddressLine1, &a.AddressLine2,
			&a.City, &a.State, &a.Country, &a.PostalCode, &a.PhoneNumber); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) owner(ctx context.Context, addressID string) (string, error) {
	var ownerID string
	err := r.db.QueryRow(ctx,
		`SELECT user_id FROM shipping_addresses WHERE id = $1`, addressID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("select address owner: %w", err)
	}
	return ownerID, nil
}

func (r *repo) Update(ctx context.Context, userID string, a *Address) error {
	ownerID, err := r.owner(ctx, a.ID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}

	_, err = r.db.Exec(ctx, `
		UPDATE shipping_addresses
		SET address_line1 = $2, address_line2 = $3, city = $4, state = $5,
		    country = $6, postal_code = $7, phone_number = $8
		WHERE id = $1
	`, a.ID, a.AddressLine1, a.AddressLine2, a.City, a.State, a.Country, a.PostalCode, a.PhoneNumber)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	a.UserID = userID
	return nil
}

func (r *repo) Delete(ctx context.Context, userID, addressID string) error {
	ownerID, err := r.owner(ctx, addressID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM shipping_addresses WHERE id = $1`, addressID); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}
