package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"shop-api/internal/order"
)

// channel is the subset of *amqp.Channel the publisher uses, split out so
// tests can fake it.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher emits enveloped domain events on the shop.events topic exchange.
type Publisher struct {
	ch       channel
	seqRepo  *SequenceRepository
	producer string
}

func NewPublisher(conn *amqp.Connection, seqRepo *SequenceRepository, producer string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	if producer == "" {
		producer = "shop-api"
	}
	return &Publisher{ch: ch, seqRepo: seqRepo, producer: producer}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// PublishOrderCreated announces a freshly assembled order. The partition
// key is the owning user, preserving per-user ordering.
func (p *Publisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	timestamp := time.Now().UTC()

	payload := OrderCreatedPayload{
		OrderID:   o.ID,
		UserID:    o.UserID,
		Timestamp: timestamp,
	}
	for _, it := range o.Items {
		payload.Items = append(payload.Items, OrderLine{
			VariantID:   it.VariantID,
			Quantity:    it.Quantity,
			PriceAtTime: it.PriceAtTime,
		})
	}

	seq, err := p.seqRepo.NextSequence(ctx, o.UserID)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := newOrderCreatedEvent(o.UserID, seq, p.producer, payload, timestamp)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderCreated envelope: %w", err)
	}

	return p.publishJSON(ctx, OrderCreatedRoutingKey, body)
}

// PublishStockDepleted flags a rejected reservation. The partition key is
// the variant so restock consumers see a per-SKU stream.
func (p *Publisher) PublishStockDepleted(ctx context.Context, userID, variantID string, requested, available int) error {
	timestamp := time.Now().UTC()

	payload := StockDepletedPayload{
		UserID:    userID,
		VariantID: variantID,
		Requested: requested,
		Available: available,
		Timestamp: timestamp,
	}

	seq, err := p.seqRepo.NextSequence(ctx, variantID)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env := newStockDepletedEvent(variantID, seq, p.producer, payload, timestamp)
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal StockDepleted envelope: %w", err)
	}

	return p.publishJSON(ctx, StockDepletedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func newOrderCreatedEvent(partitionKey string, seq int64, producer string, payload OrderCreatedPayload, occurredAt time.Time) OrderCreatedEvent {
	return OrderCreatedEvent{
		EventEnvelope: EventEnvelope{
			EventName:    EventTypeOrderCreated,
			EventVersion: 1,
			EventID:      uuid.NewString(),
			Producer:     producer,
			PartitionKey: partitionKey,
			Sequence:     seq,
			OccurredAt:   occurredAt,
			Schema:       orderCreatedSchema,
		},
		Payload: payload,
	}
}

func newStockDepletedEvent(partitionKey string, seq int64, producer string, payload StockDepletedPayload, occurredAt time.Time) StockDepletedEvent {
	return StockDepletedEvent{
		EventEnvelope: EventEnvelope{
			EventName:    EventTypeStockDepleted,
			EventVersion: 1,
			EventID:      uuid.NewString(),
			Producer:     producer,
			PartitionKey: partitionKey,
			Sequence:     seq,
			OccurredAt:   occurredAt,
			Schema:       stockDepletedSchema,
		},
		Payload: payload,
	}
}
