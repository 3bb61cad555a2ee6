package events

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange          = "shop.events"
	OrderCreatedRoutingKey  = "order.created.v1"
	StockDepletedRoutingKey = "stock.depleted.v1"
)

// MustDialRabbit connects to RabbitMQ or exits.
func MustDialRabbit(url string) *amqp.Connection {
	conn, err := amqp.Dial(url)
	if err != nil {
		log.Fatalf("dial rabbitmq: %v", err)
	}
	return conn
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
