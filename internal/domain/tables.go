package domain

// Static configuration tables consumed at startup. They are fixed for the
// lifetime of the process; only Book.Stock ever changes, via inventory
// commits against the catalog store.

// SeedCatalog returns the starting catalog with initial stock levels.
func SeedCatalog() []Book {
	return []Book{
		{ID: 1, Title: "The Midnight Library", Author: "Matt Haig", UnitPrice: Price(12.99), Stock: 5},
		{ID: 2, Title: "Project Hail Mary", Author: "Andy Weir", UnitPrice: Price(14.99), Stock: 3},
		{ID: 3, Title: "Klara and the Sun", Author: "Kazuo Ishiguro", UnitPrice: Price(13.50), Stock: 4},
		{ID: 4, Title: "The Thursday Murder Club", Author: "Richard Osman", UnitPrice: Price(9.99), Stock: 2},
		{ID: 5, Title: "Piranesi", Author: "Susanna Clarke", UnitPrice: Price(11.25), Stock: 6},
		{ID: 6, Title: "Hamnet", Author: "Maggie O'Farrell", UnitPrice: Price(10.75), Stock: 0},
	}
}

// DefaultCoupons returns the static coupon table keyed by upper-case code.
func DefaultCoupons() []Coupon {
	return []Coupon{
		{Code: "SAVE10", Kind: CouponPercentage, Value: Price(10), MinimumSubtotal: Price(0)},
		{Code: "SAVE20", Kind: CouponPercentage, Value: Price(20), MinimumSubtotal: Price(50)},
		{Code: "FLAT5", Kind: CouponFixed, Value: Price(5), MinimumSubtotal: Price(20)},
		{Code: "FREESHIP", Kind: CouponFreeShipping, Value: Price(0), MinimumSubtotal: Price(50)},
	}
}

// DefaultShippingKey is the fallback applied when an unknown shipping key is
// requested.
const DefaultShippingKey = "standard"

// DefaultShippingOptions returns the static shipping table.
func DefaultShippingOptions() []ShippingOption {
	return []ShippingOption{
		{Key: "standard", DisplayName: "Standard Shipping", Cost: Price(5.99)},
		{Key: "express", DisplayName: "Express Shipping", Cost: Price(12.99)},
		{Key: "overnight", DisplayName: "Overnight Shipping", Cost: Price(24.99)},
	}
}
