package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"petmarket/internal/domain"
	couponrepo "petmarket/internal/repository/coupon"
)

var (
	// ErrInvalidCoupon covers unknown codes and codes outside their validity
	// window.
	ErrInvalidCoupon = errors.New("invalid coupon")
	// ErrBelowMinOrder is returned when the subtotal does not reach the
	// coupon's minimum order value.
	ErrBelowMinOrder = errors.New("order below coupon minimum")
)

type Service struct {
	repo couponrepo.Repository
	now  func() time.Time
}

func New(repo couponrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Validate resolves the discount a code grants for the given subtotal.
func (s *Service) Validate(ctx context.Context, code string, subtotal int64) (int64, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, ErrInvalidCoupon
	}
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, ErrInvalidCoupon
		}
		return 0, err
	}
	if !c.ActiveAt(s.now()) {
		return 0, ErrInvalidCoupon
	}
	if subtotal < c.MinOrder {
		return 0, ErrBelowMinOrder
	}

	var discount int64
	switch c.Kind {
	case domain.CouponPercent:
		discount = subtotal * c.Value / 100
		if c.MaxDiscount > 0 && discount > c.MaxDiscount {
			discount = c.MaxDiscount
		}
	case domain.CouponFixed:
		discount = c.Value
	default:
		return 0, ErrInvalidCoupon
	}
	return discount, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.List(ctx)
}

type CreateInput struct {
	Code        string     `json:"code"`
	Kind        string     `json:"kind"`
	Value       int64      `json:"value"`
	MinOrder    int64      `json:"minOrder"`
	MaxDiscount int64      `json:"maxDiscount"`
	StartsAt    *time.Time `json:"startsAt"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Coupon, error) {
	if strings.TrimSpace(in.Code) == "" {
		return nil, errors.New("code required")
	}
	if in.Kind != domain.CouponPercent && in.Kind != domain.CouponFixed {
		return nil, errors.New("kind must be percent or fixed")
	}
	if in.Value <= 0 {
		return nil, errors.New("value must be positive")
	}
	if in.Kind == domain.CouponPercent && in.Value > 100 {
		return nil, errors.New("percent value must not exceed 100")
	}
	return s.repo.Create(ctx, domain.Coupon{
		Code:        in.Code,
		Kind:        in.Kind,
		Value:       in.Value,
		MinOrder:    in.MinOrder,
		MaxDiscount: in.MaxDiscount,
		StartsAt:    in.StartsAt,
		ExpiresAt:   in.ExpiresAt,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
