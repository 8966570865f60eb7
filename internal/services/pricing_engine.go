package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/bookfield/shop/internal/domain"
)

// ErrPricingUnavailable indicates the engine is missing its coupon resolver.
var ErrPricingUnavailable = errors.New("pricing engine: unavailable")

// PricingEngineDeps bundles the collaborators of the pricing engine.
type PricingEngineDeps struct {
	Coupons         CouponService
	ShippingOptions []ShippingOption
	DefaultShipping string
	Logger          func(ctx context.Context, event string, fields map[string]any)
}

type pricingEngine struct {
	coupons         CouponService
	shipping        map[string]ShippingOption
	defaultShipping string
	logger          func(context.Context, string, map[string]any)
}

// NewPricingEngine wires a PricingEngine. A nil shipping table falls back to
// the default static options; the fallback key must resolve to an option.
func NewPricingEngine(deps PricingEngineDeps) (PricingEngine, error) {
	if deps.Coupons == nil {
		return nil, errors.New("pricing engine: coupon service is required")
	}
	options := deps.ShippingOptions
	if options == nil {
		options = domain.DefaultShippingOptions()
	}
	defaultKey := strings.TrimSpace(deps.DefaultShipping)
	if defaultKey == "" {
		defaultKey = domain.DefaultShippingKey
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	table := make(map[string]ShippingOption, len(options))
	for _, opt := range options {
		key := strings.ToLower(strings.TrimSpace(opt.Key))
		if key == "" {
			return nil, errors.New("pricing engine: shipping option with empty key")
		}
		table[key] = opt
	}
	if _, ok := table[defaultKey]; !ok {
		return nil, errors.New("pricing engine: default shipping key has no option")
	}

	return &pricingEngine{
		coupons:         deps.Coupons,
		shipping:        table,
		defaultShipping: defaultKey,
		logger:          logger,
	}, nil
}

// Price computes the basic breakdown: rounded subtotal plus tax, no coupon
// and no shipping. An empty cart yields a zero breakdown without error.
func (e *pricingEngine) Price(ctx context.Context, cart CartSnapshot) (PriceBreakdown, error) {
	if e == nil || e.coupons == nil {
		return PriceBreakdown{}, ErrPricingUnavailable
	}
	if cart.Empty() {
		return zeroBreakdown(), nil
	}

	subtotal := domain.Round2(cart.Subtotal())
	tax := domain.Round2(subtotal.Mul(domain.TaxRate))
	total := domain.Round2(subtotal.Add(tax))

	return PriceBreakdown{
		Subtotal:     subtotal,
		Discount:     decimal.Zero,
		Tax:          tax,
		ShippingCost: decimal.Zero,
		Total:        total,
	}, nil
}

// PriceWithExtras runs the full pricing algorithm. The step order is fixed
// because each currency value is rounded at its computation point:
// subtotal, coupon discount, tax on the discounted subtotal, shipping
// resolution (unknown keys fall back to the default option), free-shipping
// zeroing, then the total.
func (e *pricingEngine) PriceWithExtras(ctx context.Context, cart CartSnapshot, couponCode, shippingKey string) (PriceBreakdown, error) {
	if e == nil || e.coupons == nil {
		return PriceBreakdown{}, ErrPricingUnavailable
	}
	if cart.Empty() {
		return zeroBreakdown(), nil
	}

	subtotal := domain.Round2(cart.Subtotal())

	couponResult, err := e.coupons.Apply(ctx, couponCode, subtotal)
	if err != nil {
		return PriceBreakdown{}, err
	}
	discount := decimal.Zero
	if couponResult.Valid {
		discount = couponResult.Discount
	}

	afterDiscount := subtotal.Sub(discount)
	tax := domain.Round2(afterDiscount.Mul(domain.TaxRate))

	option := e.resolveShipping(shippingKey)
	shippingCost := option.Cost
	if couponResult.FreeShipping {
		shippingCost = decimal.Zero
	}

	total := domain.Round2(afterDiscount.Add(tax).Add(shippingCost))

	breakdown := PriceBreakdown{
		Subtotal:           subtotal,
		Discount:           discount,
		Tax:                tax,
		ShippingCost:       shippingCost,
		ShippingMethodName: option.DisplayName,
		Total:              total,
		CouponApplied:      couponResult.Valid,
		CouponMessage:      couponResult.Message,
	}

	e.logger(ctx, "pricing.calculated", map[string]any{
		"subtotal": subtotal.StringFixed(2),
		"discount": discount.StringFixed(2),
		"total":    total.StringFixed(2),
		"shipping": option.Key,
	})
	return breakdown, nil
}

func (e *pricingEngine) resolveShipping(key string) ShippingOption {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if opt, ok := e.shipping[normalized]; ok {
		return opt
	}
	return e.shipping[e.defaultShipping]
}

func zeroBreakdown() PriceBreakdown {
	return PriceBreakdown{
		Subtotal:     decimal.Zero,
		Discount:     decimal.Zero,
		Tax:          decimal.Zero,
		ShippingCost: decimal.Zero,
		Total:        decimal.Zero,
	}
}
