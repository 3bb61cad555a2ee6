package coupon

import (
	"context"
	"errors"
	"time"

	"shop-api/internal/cart"
)

var (
	ErrInvalidCoupon = errors.New("invalid or inactive coupon")
	ErrCouponExpired = errors.New("coupon has expired")
)

// Service validates coupons and attaches them to carts.
type Service struct {
	repo  Repository
	carts cart.Repository
	now   func() time.Time
}

func NewService(repo Repository, carts cart.Repository) *Service {
	return &Service{repo: repo, carts: carts, now: time.Now}
}

// Apply validates the code and attaches the coupon to the user's cart,
// creating the cart if absent. An expired coupon leaves the cart untouched.
func (s *Service) Apply(ctx context.Context, userID, code string) (*Coupon, error) {
	c, err := s.repo.GetActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCoupon
		}
		return nil, err
	}

	if c.Expired(s.now()) {
		return nil, ErrCouponExpired
	}

	if err := s.carts.AttachCoupon(ctx, userID, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}
