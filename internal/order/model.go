package order

import "time"

type Item struct {
	ID          string  `json:"itemId"`
	OrderID     string  `json:"orderId"`
	VariantID   string  `json:"variantId"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"priceAtTime"`
}

// Order is an immutable snapshot of a cart's contents at purchase time.
// Only the status fields ever change after creation.
type Order struct {
	ID            string        `json:"orderId"`
	UserID        string        `json:"userId"`
	OrderStatus   Status        `json:"orderStatus"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Items         []Item        `json:"items,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
