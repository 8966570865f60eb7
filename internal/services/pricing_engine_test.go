package services

import (
	"context"
	"testing"

	domain "github.com/bookfield/shop/internal/domain"
)

func newTestPricingEngine(t *testing.T) PricingEngine {
	t.Helper()
	coupons := newTestCouponService(t)
	engine, err := NewPricingEngine(PricingEngineDeps{Coupons: coupons})
	if err != nil {
		t.Fatalf("NewPricingEngine error: %v", err)
	}
	return engine
}

func snapshotOf(prices ...float64) CartSnapshot {
	lines := make([]CartLine, 0, len(prices))
	for i, p := range prices {
		lines = append(lines, CartLine{
			Book:     Book{ID: i + 1, Title: "Book", Author: "Author", UnitPrice: domain.Price(p), Stock: 10},
			Quantity: 1,
		})
	}
	return CartSnapshot{Lines: lines}
}

func TestPricingEngineBasic(t *testing.T) {
	ctx := context.Background()
	engine := newTestPricingEngine(t)

	t.Run("single item", func(t *testing.T) {
		breakdown, err := engine.Price(ctx, snapshotOf(12.99))
		if err != nil {
			t.Fatalf("Price error: %v", err)
		}
		if got := breakdown.Subtotal.StringFixed(2); got != "12.99" {
			t.Fatalf("subtotal: want 12.99, got %s", got)
		}
		if got := breakdown.Tax.StringFixed(2); got != "1.30" {
			t.Fatalf("tax: want 1.30, got %s", got)
		}
		if got := breakdown.Total.StringFixed(2); got != "14.29" {
			t.Fatalf("total: want 14.29, got %s", got)
		}
	})

	t.Run("two items", func(t *testing.T) {
		breakdown, err := engine.Price(ctx, snapshotOf(12.99, 14.99))
		if err != nil {
			t.Fatalf("Price error: %v", err)
		}
		if got := breakdown.Subtotal.StringFixed(2); got != "27.98" {
			t.Fatalf("subtotal: want 27.98, got %s", got)
		}
		if got := breakdown.Total.StringFixed(2); got != "30.78" {
			t.Fatalf("total: want 30.78, got %s", got)
		}
	})

	t.Run("empty cart yields zero breakdown", func(t *testing.T) {
		breakdown, err := engine.Price(ctx, CartSnapshot{})
		if err != nil {
			t.Fatalf("Price error: %v", err)
		}
		if !breakdown.Total.IsZero() || !breakdown.Subtotal.IsZero() {
			t.Fatalf("expected zero breakdown, got %+v", breakdown)
		}
	})
}

func TestPricingEngineWithExtras(t *testing.T) {
	ctx := context.Background()
	engine := newTestPricingEngine(t)

	t.Run("no coupon with standard shipping", func(t *testing.T) {
		breakdown, err := engine.PriceWithExtras(ctx, snapshotOf(12.99), "", "standard")
		if err != nil {
			t.Fatalf("PriceWithExtras error: %v", err)
		}
		if got := breakdown.Tax.StringFixed(2); got != "1.30" {
			t.Fatalf("tax: want 1.30, got %s", got)
		}
		if got := breakdown.ShippingCost.StringFixed(2); got != "5.99" {
			t.Fatalf("shipping: want 5.99, got %s", got)
		}
		if got := breakdown.Total.StringFixed(2); got != "20.28" {
			t.Fatalf("total: want 20.28, got %s", got)
		}
		if breakdown.CouponApplied {
			t.Fatalf("expected no coupon applied, got %+v", breakdown)
		}
	})

	t.Run("percentage coupon and standard shipping", func(t *testing.T) {
		breakdown, err := engine.PriceWithExtras(ctx, snapshotOf(12.99), "SAVE10", "standard")
		if err != nil {
			t.Fatalf("PriceWithExtras error: %v", err)
		}
		if got := breakdown.Subtotal.StringFixed(2); got != "12.99" {
			t.Fatalf("subtotal: want 12.99, got %s", got)
		}
		if got := breakdown.Discount.StringFixed(2); got != "1.30" {
			t.Fatalf("discount: want 1.30, got %s", got)
		}
		if got := breakdown.Total.StringFixed(2); got != "18.85" {
			t.Fatalf("total: want 18.85, got %s", got)
		}
		if !breakdown.CouponApplied {
			t.Fatalf("expected coupon applied, got %+v", breakdown)
		}
	})

	t.Run("free shipping coupon zeroes the shipping cost", func(t *testing.T) {
		breakdown, err := engine.PriceWithExtras(ctx, snapshotOf(30, 25), "FREESHIP", "express")
		if err != nil {
			t.Fatalf("PriceWithExtras error: %v", err)
		}
		if !breakdown.ShippingCost.IsZero() {
			t.Fatalf("expected free shipping, got %s", breakdown.ShippingCost)
		}
		if !breakdown.CouponApplied {
			t.Fatalf("expected coupon applied, got %+v", breakdown)
		}
	})

	t.Run("unknown shipping key falls back to standard", func(t *testing.T) {
		breakdown, err := engine.PriceWithExtras(ctx, snapshotOf(12.99), "", "carrier-pigeon")
		if err != nil {
			t.Fatalf("PriceWithExtras error: %v", err)
		}
		if got := breakdown.ShippingCost.StringFixed(2); got != "5.99" {
			t.Fatalf("shipping: want standard 5.99, got %s", got)
		}
		if breakdown.ShippingMethodName != "Standard Shipping" {
			t.Fatalf("expected standard method name, got %q", breakdown.ShippingMethodName)
		}
	})

	t.Run("invalid coupon prices without discount", func(t *testing.T) {
		breakdown, err := engine.PriceWithExtras(ctx, snapshotOf(12.99), "BOGUS", "standard")
		if err != nil {
			t.Fatalf("PriceWithExtras error: %v", err)
		}
		if !breakdown.Discount.IsZero() {
			t.Fatalf("expected zero discount, got %s", breakdown.Discount)
		}
		if breakdown.CouponApplied {
			t.Fatalf("expected coupon not applied")
		}
		if breakdown.CouponMessage != "invalid coupon code" {
			t.Fatalf("unexpected coupon message %q", breakdown.CouponMessage)
		}
	})

	t.Run("minimum not met reports the coupon message", func(t *testing.T) {
		breakdown, err := engine.PriceWithExtras(ctx, snapshotOf(30), "SAVE20", "standard")
		if err != nil {
			t.Fatalf("PriceWithExtras error: %v", err)
		}
		if breakdown.CouponApplied || !breakdown.Discount.IsZero() {
			t.Fatalf("expected no discount, got %+v", breakdown)
		}
	})
}
