package cart

import "time"

type Item struct {
	ID          string  `json:"itemId"`
	CartID      string  `json:"cartId"`
	VariantID   string  `json:"variantId"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"priceAtTime"`
}

type Cart struct {
	ID        string    `json:"cartId"`
	UserID    string    `json:"userId"`
	CouponID  string    `json:"couponId,omitempty"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
