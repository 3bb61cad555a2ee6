package auth

import "time"

type User struct {
	ID          string    `json:"userId"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	IsActive    bool      `json:"isActive"`
	IsSuperuser bool      `json:"isSuperuser"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Identity is what the middleware places into the request context
// after verifying a bearer token.
type Identity struct {
	UserID      string
	Username    string
	IsSuperuser bool
}
