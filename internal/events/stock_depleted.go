package events

import "time"

const (
	EventTypeStockDepleted = "StockDepleted"

	stockDepletedSchema = "shop.events.stock-depleted.v1"
)

type StockDepletedPayload struct {
	UserID    string    `json:"userId"`
	VariantID string    `json:"variantId"`
	Requested int       `json:"requested"`
	Available int       `json:"available"`
	Timestamp time.Time `json:"timestamp"`
}

type StockDepletedEvent struct {
	EventEnvelope
	Payload StockDepletedPayload `json:"payload"`
}
