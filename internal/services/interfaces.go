// Package services implements the shop's business logic: catalog queries,
// cart mutation, pricing, payment simulation, inventory commits, email
// notification, and the purchase orchestration that composes them.
package services

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/bookfield/shop/internal/domain"
)

// Type aliases expose domain models to the services package without
// reversing dependency direction.
type (
	Book           = domain.Book
	CartLine       = domain.CartLine
	Coupon         = domain.Coupon
	ShippingOption = domain.ShippingOption
	PriceBreakdown = domain.PriceBreakdown
	PaymentOutcome = domain.PaymentOutcome
	EmailRecord    = domain.EmailRecord
	Order          = domain.Order
)

// CatalogService answers read-only catalog queries. Stock is never written
// through this interface.
type CatalogService interface {
	Search(ctx context.Context, query string) ([]Book, error)
	Get(ctx context.Context, bookID int) (Book, error)
}

// CartService manages the single session-scoped cart. One instance owns one
// cart; this mirrors the single-session model of the shop and is an explicit
// simplification, not a concurrency design.
type CartService interface {
	Add(ctx context.Context, bookID int, quantity int) (CartSnapshot, error)
	Reset(ctx context.Context) error
	Snapshot(ctx context.Context) (CartSnapshot, error)
	Restore(ctx context.Context, snapshot CartSnapshot) error
}

// CouponService validates coupon codes against a subtotal. Invalid codes are
// soft failures reported through CouponResult, never through the error.
type CouponService interface {
	Apply(ctx context.Context, code string, subtotal decimal.Decimal) (CouponResult, error)
}

// PricingEngine computes itemized price breakdowns for a cart snapshot.
// Price is the basic variant (subtotal plus tax); PriceWithExtras layers
// coupon and shipping resolution on top in a fixed order so rounding is
// reproducible.
type PricingEngine interface {
	Price(ctx context.Context, cart CartSnapshot) (PriceBreakdown, error)
	PriceWithExtras(ctx context.Context, cart CartSnapshot, couponCode, shippingKey string) (PriceBreakdown, error)
}

// PaymentService simulates the external payment gateway. The accept/reject
// decision is the single nondeterministic point of the pipeline and is
// driven by an injectable randomness source.
type PaymentService interface {
	Charge(ctx context.Context, amount decimal.Decimal, method string) (PaymentOutcome, error)
}

// InventoryService applies cart quantities to catalog stock using a
// validate-all-then-apply-all discipline. Reset restores seeded stocks.
type InventoryService interface {
	Commit(ctx context.Context, lines []CartLine) (map[int]int, error)
	Reset(ctx context.Context) error
}

// NotificationService simulates email delivery backed by an append-only log.
type NotificationService interface {
	Notify(ctx context.Context, recipient, subject, payload string) (EmailOutcome, error)
	Log(ctx context.Context) ([]EmailRecord, error)
	ClearLog(ctx context.Context) error
}

// PurchaseService runs the whole purchase transaction: search, cart build,
// pricing, payment, inventory commit, and optional confirmation email, with
// rollback of the cart on any failure.
type PurchaseService interface {
	Purchase(ctx context.Context, cmd PurchaseCommand) (PurchaseResult, error)
	PurchaseWithOptions(ctx context.Context, cmd PurchaseOptionsCommand) (PurchaseResult, error)
}

// Command and DTO definitions ------------------------------------------------

// CartSnapshot is an immutable copy of the cart handed to callers. Lines are
// ordered by book id; mutating a snapshot never affects the live cart.
type CartSnapshot struct {
	Lines []CartLine
}

// Subtotal sums unit price times quantity across the snapshot without
// rounding; pricing rounds at its own computation points.
func (s CartSnapshot) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Book.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Empty reports whether the snapshot holds no lines.
func (s CartSnapshot) Empty() bool { return len(s.Lines) == 0 }

// CouponResult is the soft outcome of validating a coupon code.
type CouponResult struct {
	Valid        bool
	Discount     decimal.Decimal
	Kind         domain.CouponKind
	FreeShipping bool
	Message      string
}

// EmailOutcome reports a single notification attempt.
type EmailOutcome struct {
	Sent    bool
	EmailID string
}

// PurchaseCommand drives the basic purchase flow.
type PurchaseCommand struct {
	Query    string
	BookID   int
	Quantity int
}

// PurchaseOptionsCommand extends PurchaseCommand with coupon, shipping,
// email, and payment method options.
type PurchaseOptionsCommand struct {
	PurchaseCommand
	CouponCode    string
	ShippingKey   string
	Email         string
	PaymentMethod string
}

// PurchaseResult is the uniform outcome of a purchase attempt. Failures are
// reported here rather than through raised errors; the orchestrator converts
// every low-level failure into Error/Message.
type PurchaseResult struct {
	Success bool
	Error   string
	Message string
	Order   *Order
}
