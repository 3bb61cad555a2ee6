package payment

import (
	"time"

	"shop-api/internal/order"
)

type Method string

const (
	MethodCOD    Method = "COD"
	MethodCard   Method = "Card"
	MethodPayPal Method = "PayPal"
)

// Payment is an append-only record against an order. Its status mirrors
// the order's payment status at the time it was recorded.
type Payment struct {
	ID        string              `json:"paymentId"`
	OrderID   string              `json:"orderId"`
	Amount    float64             `json:"amount"`
	Status    order.PaymentStatus `json:"paymentStatus"`
	Method    Method              `json:"paymentMethod"`
	CreatedAt time.Time           `json:"createdAt"`
}
