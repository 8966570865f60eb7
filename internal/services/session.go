package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrSessionUnavailable indicates the session is missing a service it needs.
var ErrSessionUnavailable = errors.New("session: unavailable")

// Session bundles one wired set of services behind the shop's programmatic
// surface. One Session models one customer session with its own cart; the
// catalog and email log behind it are process-wide.
type Session struct {
	Catalog   CatalogService
	Cart      CartService
	Coupons   CouponService
	Pricer    PricingEngine
	Payments  PaymentService
	Inventory InventoryService
	Notifier  NotificationService
	Purchases PurchaseService
}

// SearchBooks queries the catalog by free text.
func (s *Session) SearchBooks(ctx context.Context, query string) ([]Book, error) {
	if s == nil || s.Catalog == nil {
		return nil, ErrSessionUnavailable
	}
	return s.Catalog.Search(ctx, query)
}

// AddToCart adds a quantity of a book to the session cart.
func (s *Session) AddToCart(ctx context.Context, bookID, quantity int) (CartSnapshot, error) {
	if s == nil || s.Cart == nil {
		return CartSnapshot{}, ErrSessionUnavailable
	}
	return s.Cart.Add(ctx, bookID, quantity)
}

// GetCart returns an immutable snapshot of the session cart.
func (s *Session) GetCart(ctx context.Context) (CartSnapshot, error) {
	if s == nil || s.Cart == nil {
		return CartSnapshot{}, ErrSessionUnavailable
	}
	return s.Cart.Snapshot(ctx)
}

// ResetCart clears the session cart.
func (s *Session) ResetCart(ctx context.Context) error {
	if s == nil || s.Cart == nil {
		return ErrSessionUnavailable
	}
	return s.Cart.Reset(ctx)
}

// CalculateTotal prices the current cart with the basic algorithm
// (subtotal plus tax, no coupon or shipping).
func (s *Session) CalculateTotal(ctx context.Context) (PriceBreakdown, error) {
	if s == nil || s.Cart == nil || s.Pricer == nil {
		return PriceBreakdown{}, ErrSessionUnavailable
	}
	cart, err := s.Cart.Snapshot(ctx)
	if err != nil {
		return PriceBreakdown{}, err
	}
	return s.Pricer.Price(ctx, cart)
}

// CalculateTotalWithExtras prices the current cart with coupon and shipping
// resolution.
func (s *Session) CalculateTotalWithExtras(ctx context.Context, couponCode, shippingKey string) (PriceBreakdown, error) {
	if s == nil || s.Cart == nil || s.Pricer == nil {
		return PriceBreakdown{}, ErrSessionUnavailable
	}
	cart, err := s.Cart.Snapshot(ctx)
	if err != nil {
		return PriceBreakdown{}, err
	}
	return s.Pricer.PriceWithExtras(ctx, cart, couponCode, shippingKey)
}

// ApplyCoupon validates a coupon code against a subtotal.
func (s *Session) ApplyCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (CouponResult, error) {
	if s == nil || s.Coupons == nil {
		return CouponResult{}, ErrSessionUnavailable
	}
	return s.Coupons.Apply(ctx, code, subtotal)
}

// ProcessPayment charges the simulated gateway.
func (s *Session) ProcessPayment(ctx context.Context, amount decimal.Decimal, method string) (PaymentOutcome, error) {
	if s == nil || s.Payments == nil {
		return PaymentOutcome{}, ErrSessionUnavailable
	}
	return s.Payments.Charge(ctx, amount, method)
}

// UpdateInventory commits the current cart's quantities against live stock.
func (s *Session) UpdateInventory(ctx context.Context) (map[int]int, error) {
	if s == nil || s.Cart == nil || s.Inventory == nil {
		return nil, ErrSessionUnavailable
	}
	cart, err := s.Cart.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Inventory.Commit(ctx, cart.Lines)
}

// ResetInventory restores seeded stock levels. Test and ops support.
func (s *Session) ResetInventory(ctx context.Context) error {
	if s == nil || s.Inventory == nil {
		return ErrSessionUnavailable
	}
	return s.Inventory.Reset(ctx)
}

// SendConfirmationEmail simulates an email send outside a purchase.
func (s *Session) SendConfirmationEmail(ctx context.Context, recipient, subject, payload string) (EmailOutcome, error) {
	if s == nil || s.Notifier == nil {
		return EmailOutcome{}, ErrSessionUnavailable
	}
	return s.Notifier.Notify(ctx, recipient, subject, payload)
}

// GetEmailLog returns the append-only email log.
func (s *Session) GetEmailLog(ctx context.Context) ([]EmailRecord, error) {
	if s == nil || s.Notifier == nil {
		return nil, ErrSessionUnavailable
	}
	return s.Notifier.Log(ctx)
}

// ClearEmailLog empties the email log. Test and ops support.
func (s *Session) ClearEmailLog(ctx context.Context) error {
	if s == nil || s.Notifier == nil {
		return ErrSessionUnavailable
	}
	return s.Notifier.ClearLog(ctx)
}

// Purchase runs the basic purchase pipeline.
func (s *Session) Purchase(ctx context.Context, cmd PurchaseCommand) (PurchaseResult, error) {
	if s == nil || s.Purchases == nil {
		return PurchaseResult{}, ErrSessionUnavailable
	}
	return s.Purchases.Purchase(ctx, cmd)
}

// PurchaseWithOptions runs the extended purchase pipeline.
func (s *Session) PurchaseWithOptions(ctx context.Context, cmd PurchaseOptionsCommand) (PurchaseResult, error) {
	if s == nil || s.Purchases == nil {
		return PurchaseResult{}, ErrSessionUnavailable
	}
	return s.Purchases.PurchaseWithOptions(ctx, cmd)
}
