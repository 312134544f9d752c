package coupon

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"petmarket/internal/domain"
)

type stubRepo struct {
	coupons map[string]domain.Coupon
}

func newStubRepo(cs ...domain.Coupon) *stubRepo {
	r := &stubRepo{coupons: map[string]domain.Coupon{}}
	for _, c := range cs {
		r.coupons[strings.ToUpper(c.Code)] = c
	}
	return r
}

func (s *stubRepo) List(_ context.Context) ([]domain.Coupon, error) {
	out := make([]domain.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubRepo) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	c, ok := s.coupons[strings.ToUpper(code)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (s *stubRepo) Create(_ context.Context, c domain.Coupon) (*domain.Coupon, error) {
	key := strings.ToUpper(c.Code)
	if _, ok := s.coupons[key]; ok {
		return nil, domain.ErrAlreadyExists
	}
	c.ID = key
	s.coupons[key] = c
	return &c, nil
}

func (s *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.coupons[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.coupons, id)
	return nil
}

func frozen(svc *Service, t time.Time) *Service {
	svc.now = func() time.Time { return t }
	return svc
}

func TestValidate_PercentWithCap(t *testing.T) {
	svc := New(newStubRepo(domain.Coupon{
		Code:        "TEN",
		Kind:        domain.CouponPercent,
		Value:       10,
		MaxDiscount: 40000,
	}))

	// 10% of 300000 is under the cap.
	got, err := svc.Validate(context.Background(), "TEN", 300000)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != 30000 {
		t.Fatalf("discount: got %d, want 30000", got)
	}

	// 10% of 900000 would be 90000; the cap wins.
	got, err = svc.Validate(context.Background(), "TEN", 900000)
	if err != nil {
		t.Fatalf("validate capped: %v", err)
	}
	if got != 40000 {
		t.Fatalf("capped discount: got %d, want 40000", got)
	}
}

func TestValidate_FixedAmount(t *testing.T) {
	svc := New(newStubRepo(domain.Coupon{
		Code:  "FLAT50",
		Kind:  domain.CouponFixed,
		Value: 50000,
	}))

	got, err := svc.Validate(context.Background(), "flat50", 120000)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != 50000 {
		t.Fatalf("discount: got %d, want 50000", got)
	}
}

func TestValidate_UnknownCode(t *testing.T) {
	svc := New(newStubRepo())

	if _, err := svc.Validate(context.Background(), "GHOST", 100000); !errors.Is(err, ErrInvalidCoupon) {
		t.Fatalf("expected ErrInvalidCoupon, got %v", err)
	}
	if _, err := svc.Validate(context.Background(), "  ", 100000); !errors.Is(err, ErrInvalidCoupon) {
		t.Fatalf("blank code: expected ErrInvalidCoupon, got %v", err)
	}
}

func TestValidate_MinOrder(t *testing.T) {
	svc := New(newStubRepo(domain.Coupon{
		Code:     "BIG",
		Kind:     domain.CouponFixed,
		Value:    20000,
		MinOrder: 200000,
	}))

	if _, err := svc.Validate(context.Background(), "BIG", 199999); !errors.Is(err, ErrBelowMinOrder) {
		t.Fatalf("expected ErrBelowMinOrder, got %v", err)
	}
	if got, err := svc.Validate(context.Background(), "BIG", 200000); err != nil || got != 20000 {
		t.Fatalf("at minimum: got %d, %v", got, err)
	}
}

func TestValidate_Window(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	svc := New(newStubRepo(domain.Coupon{
		Code:      "JUNE",
		Kind:      domain.CouponFixed,
		Value:     10000,
		StartsAt:  &start,
		ExpiresAt: &end,
	}))

	cases := []struct {
		name string
		at   time.Time
		ok   bool
	}{
		{"before window", start.Add(-time.Hour), false},
		{"inside window", start.Add(24 * time.Hour), true},
		{"after window", end.Add(time.Hour), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			frozen(svc, c.at)
			_, err := svc.Validate(context.Background(), "JUNE", 100000)
			if c.ok && err != nil {
				t.Fatalf("expected valid: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalidCoupon) {
				t.Fatalf("expected ErrInvalidCoupon, got %v", err)
			}
		})
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := New(newStubRepo())

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"empty code", CreateInput{Kind: domain.CouponFixed, Value: 1000}},
		{"bad kind", CreateInput{Code: "X", Kind: "bogo", Value: 1000}},
		{"zero value", CreateInput{Code: "X", Kind: domain.CouponFixed}},
		{"percent over 100", CreateInput{Code: "X", Kind: domain.CouponPercent, Value: 150}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), c.in); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	created, err := svc.Create(context.Background(), CreateInput{Code: "OK", Kind: domain.CouponPercent, Value: 15})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Code != "OK" {
		t.Fatalf("unexpected coupon %+v", created)
	}
}
