package cart

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "cart").Logger()

// StockEventsPublisher is implemented by the events package.
type StockEventsPublisher interface {
	PublishStockDepleted(ctx context.Context, userID, variantID string, requested, available int) error
}

// Service orchestrates cart mutations and emits stock events when a
// reservation is rejected.
type Service struct {
	repo      Repository
	publisher StockEventsPublisher
}

func NewService(repo Repository, publisher StockEventsPublisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

func (s *Service) AddItem(ctx context.Context, userID, variantID string, quantity int) (*Item, error) {
	it, err := s.repo.AddItem(ctx, userID, variantID, quantity)
	if err != nil {
		var short *InsufficientStockError
		if errors.As(err, &short) && s.publisher != nil {
			// Advisory event; never fails the request.
			if pubErr := s.publisher.PublishStockDepleted(ctx, userID, short.VariantID, short.Requested, short.Available); pubErr != nil {
				logger.Warn().Err(pubErr).Str("variantId", short.VariantID).Msg("publish StockDepleted failed")
			}
		}
		return nil, err
	}
	return it, nil
}

func (s *Service) UpdateItem(ctx context.Context, userID, variantID string, quantity int, priceAtTime float64) (*Item, error) {
	return s.repo.UpdateItem(ctx, userID, variantID, quantity, priceAtTime)
}
