package coupon

import "time"

type Coupon struct {
	ID             string    `json:"couponId"`
	Code           string    `json:"code"`
	DiscountAmount float64   `json:"discountAmount"`
	ExpirationDate time.Time `json:"expirationDate"`
	IsActive       bool      `json:"isActive"`
}

// Expired reports whether the coupon's expiration date lies strictly
// before the calendar day of now.
func (c Coupon) Expired(now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := c.ExpirationDate.Date()
	exp := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return exp.Before(today)
}
