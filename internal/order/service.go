package order

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "order").Logger()

// OrderEventsPublisher is implemented by the events package.
type OrderEventsPublisher interface {
	PublishOrderCreated(ctx context.Context, o *Order) error
}

type Service struct {
	repo      Repository
	publisher OrderEventsPublisher
}

func NewService(repo Repository, publisher OrderEventsPublisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// CreateFromCart assembles the order and announces it. Publishing happens
// after commit and is best-effort.
func (s *Service) CreateFromCart(ctx context.Context, userID string) (*Order, error) {
	o, err := s.repo.CreateFromCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if pubErr := s.publisher.PublishOrderCreated(ctx, o); pubErr != nil {
			logger.Warn().Err(pubErr).Str("orderId", o.ID).Msg("publish OrderCreated failed")
		}
	}

	logger.Info().Str("orderId", o.ID).Str("userId", userID).Int("items", len(o.Items)).Msg("order created")
	return o, nil
}

func (s *Service) Cancel(ctx context.Context, userID, orderID string) error {
	return s.repo.Cancel(ctx, userID, orderID)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListItems(ctx context.Context, userID, orderID string) ([]Item, error) {
	return s.repo.ListItems(ctx, userID, orderID)
}
