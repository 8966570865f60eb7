// Package domain defines the core types shared across the shop's services.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book is a catalog entry. Stock is the only mutable field and is written
// exclusively by the inventory commit path.
type Book struct {
	ID        int
	Title     string
	Author    string
	UnitPrice decimal.Decimal
	Stock     int
}

// CartLine pairs a snapshot of a book taken at add-time with the requested
// quantity. Later stock changes do not retroactively alter the snapshot;
// quantity checks always consult live stock.
type CartLine struct {
	Book     Book
	Quantity int
}

// CouponKind enumerates the supported coupon semantics.
type CouponKind string

const (
	CouponPercentage   CouponKind = "percentage"
	CouponFixed        CouponKind = "fixed"
	CouponFreeShipping CouponKind = "free_shipping"
)

// Coupon is an immutable entry of the static coupon table. Codes are matched
// case-insensitively.
type Coupon struct {
	Code            string
	Kind            CouponKind
	Value           decimal.Decimal
	MinimumSubtotal decimal.Decimal
}

// ShippingOption is an immutable entry of the static shipping table.
type ShippingOption struct {
	Key         string
	DisplayName string
	Cost        decimal.Decimal
}

// PriceBreakdown itemizes the monetary outcome of pricing a cart. It is
// derived state, recomputed on every call and never persisted.
type PriceBreakdown struct {
	Subtotal           decimal.Decimal
	Discount           decimal.Decimal
	Tax                decimal.Decimal
	ShippingCost       decimal.Decimal
	ShippingMethodName string
	Total              decimal.Decimal
	CouponApplied      bool
	CouponMessage      string
}

// PaymentOutcome records a single charge attempt.
type PaymentOutcome struct {
	Accepted      bool
	TransactionID string
}

// EmailRecord is one entry of the append-only email log. Records are never
// mutated after append.
type EmailRecord struct {
	ID        string
	Recipient string
	Subject   string
	Payload   string
	Timestamp time.Time
	Status    string
}

// Order is the result of one successful purchase transaction.
type Order struct {
	OrderID            string
	TransactionID      string
	Lines              []CartLine
	Pricing            PriceBreakdown
	UpdatedStockLevels map[int]int
	EmailSent          bool
	EmailID            string
}
