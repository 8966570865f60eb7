package services

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	domain "github.com/bookfield/shop/internal/domain"
)

// Pricing must be a pure function of the cart: identical inputs produce
// identical breakdowns, and the published figures always satisfy
// total = (subtotal - discount) + tax + shipping.
func TestPricingEngineProperties(t *testing.T) {
	ctx := context.Background()
	engine := newTestPricingEngine(t)

	shippingKeys := []string{"standard", "express", "overnight", "unknown"}
	couponCodes := []string{"", "SAVE10", "SAVE20", "FLAT5", "FREESHIP", "BOGUS"}

	rapid.Check(t, func(rt *rapid.T) {
		lineCount := rapid.IntRange(1, 6).Draw(rt, "lines")
		lines := make([]CartLine, 0, lineCount)
		for i := 0; i < lineCount; i++ {
			cents := rapid.Int64Range(100, 5000).Draw(rt, "cents")
			quantity := rapid.IntRange(1, 5).Draw(rt, "quantity")
			lines = append(lines, CartLine{
				Book: Book{
					ID:        i + 1,
					Title:     "Book",
					Author:    "Author",
					UnitPrice: domain.Price(float64(cents) / 100),
					Stock:     100,
				},
				Quantity: quantity,
			})
		}
		cart := CartSnapshot{Lines: lines}
		coupon := rapid.SampledFrom(couponCodes).Draw(rt, "coupon")
		shipping := rapid.SampledFrom(shippingKeys).Draw(rt, "shipping")

		first, err := engine.PriceWithExtras(ctx, cart, coupon, shipping)
		if err != nil {
			rt.Fatalf("PriceWithExtras error: %v", err)
		}
		second, err := engine.PriceWithExtras(ctx, cart, coupon, shipping)
		if err != nil {
			rt.Fatalf("second PriceWithExtras error: %v", err)
		}

		if !first.Total.Equal(second.Total) || !first.Tax.Equal(second.Tax) {
			rt.Fatalf("pricing not deterministic: %+v vs %+v", first, second)
		}

		recomposed := domain.Round2(first.Subtotal.Sub(first.Discount).Add(first.Tax).Add(first.ShippingCost))
		if !first.Total.Equal(recomposed) {
			rt.Fatalf("breakdown does not recompose: total %s, parts %s", first.Total, recomposed)
		}

		if first.Subtotal.Sign() < 0 || first.Tax.Sign() < 0 || first.ShippingCost.Sign() < 0 {
			rt.Fatalf("negative component in breakdown: %+v", first)
		}
	})
}
