package events

import "time"

const (
	EventTypeOrderCreated = "OrderCreated"

	orderCreatedSchema = "shop.events.order-created.v1"
)

type OrderLine struct {
	VariantID   string  `json:"variantId"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"priceAtTime"`
}

type OrderCreatedPayload struct {
	OrderID   string      `json:"orderId"`
	UserID    string      `json:"userId"`
	Items     []OrderLine `json:"items"`
	Timestamp time.Time   `json:"timestamp"`
}

type OrderCreatedEvent struct {
	EventEnvelope
	Payload OrderCreatedPayload `json:"payload"`
}
