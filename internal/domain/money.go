package domain

import "github.com/shopspring/decimal"

// TaxRate is the flat tax rate applied to the discounted subtotal.
var TaxRate = decimal.NewFromFloat(0.10)

// Round2 rounds a currency value to two decimal places using half-up
// rounding. Every pricing step rounds at the point of computation rather
// than deferring, so intermediate figures match the published totals.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Price builds a decimal from a float literal such as a seed unit price.
func Price(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
