package domain

import "time"

// Coupon kinds.
const (
	CouponPercent = "percent"
	CouponFixed   = "fixed"
)

type Coupon struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Kind        string     `json:"kind"`
	Value       int64      `json:"value"`
	MinOrder    int64      `json:"minOrder"`
	MaxDiscount int64      `json:"maxDiscount,omitempty"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ActiveAt reports whether the coupon's validity window covers t.
func (c Coupon) ActiveAt(t time.Time) bool {
	if c.StartsAt != nil && t.Before(*c.StartsAt) {
		return false
	}
	if c.ExpiresAt != nil && t.After(*c.ExpiresAt) {
		return false
	}
	return true
}
