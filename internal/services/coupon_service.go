package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/bookfield/shop/internal/domain"
)

// ErrCouponUnavailable indicates the coupon service was constructed without a table.
var ErrCouponUnavailable = errors.New("coupon service: unavailable")

// CouponServiceDeps wires the static coupon table into the resolver.
type CouponServiceDeps struct {
	Coupons []Coupon
	Logger  func(ctx context.Context, event string, fields map[string]any)
}

type couponService struct {
	table  map[string]Coupon
	logger func(context.Context, string, map[string]any)
}

// NewCouponService indexes the coupon table by upper-cased code. A nil table
// falls back to the default static coupons.
func NewCouponService(deps CouponServiceDeps) (CouponService, error) {
	coupons := deps.Coupons
	if coupons == nil {
		coupons = domain.DefaultCoupons()
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	table := make(map[string]Coupon, len(coupons))
	for _, c := range coupons {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if code == "" {
			return nil, errors.New("coupon service: coupon with empty code")
		}
		table[code] = c
	}
	return &couponService{table: table, logger: logger}, nil
}

// Apply resolves and validates a coupon code against the subtotal. All
// failures are soft: they come back as Valid=false with a message, never as
// an error.
func (s *couponService) Apply(ctx context.Context, code string, subtotal decimal.Decimal) (CouponResult, error) {
	if s == nil || s.table == nil {
		return CouponResult{}, ErrCouponUnavailable
	}

	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return CouponResult{Discount: decimal.Zero, Message: "no coupon provided"}, nil
	}

	coupon, ok := s.table[normalized]
	if !ok {
		return CouponResult{Discount: decimal.Zero, Message: "invalid coupon code"}, nil
	}

	if subtotal.LessThan(coupon.MinimumSubtotal) {
		return CouponResult{
			Discount: decimal.Zero,
			Message:  fmt.Sprintf("coupon %s requires a minimum subtotal of %s", coupon.Code, coupon.MinimumSubtotal.StringFixed(2)),
		}, nil
	}

	result := CouponResult{
		Valid:   true,
		Kind:    coupon.Kind,
		Message: fmt.Sprintf("coupon %s applied", coupon.Code),
	}
	switch coupon.Kind {
	case domain.CouponPercentage:
		result.Discount = domain.Round2(subtotal.Mul(coupon.Value).Div(decimal.NewFromInt(100)))
	case domain.CouponFixed:
		result.Discount = coupon.Value
	case domain.CouponFreeShipping:
		result.Discount = decimal.Zero
		result.FreeShipping = true
	default:
		return CouponResult{}, fmt.Errorf("coupon service: unknown kind %q", coupon.Kind)
	}

	s.logger(ctx, "coupon.applied", map[string]any{
		"code":     coupon.Code,
		"kind":     string(coupon.Kind),
		"discount": result.Discount.StringFixed(2),
	})
	return result, nil
}
