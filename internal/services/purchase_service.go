package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/bookfield/shop/internal/services")

// purchaseState names one stage of the purchase pipeline. Any stage can
// transition to failed; failed always restores the rollback point.
type purchaseState string

const (
	stateSearching  purchaseState = "searching"
	stateCarting    purchaseState = "carting"
	statePricing    purchaseState = "pricing"
	statePaying     purchaseState = "paying"
	stateCommitting purchaseState = "committing"
	stateNotifying  purchaseState = "notifying"
	stateSucceeded  purchaseState = "succeeded"
	stateFailed     purchaseState = "failed"
)

const (
	purchaseFailedMessage   = "Purchase failed"
	purchaseSucceededMsg    = "Purchase completed"
	defaultPaymentMethod    = "credit"
	confirmationSubjectStem = "Order confirmation"
)

// ErrPurchaseUnavailable indicates the orchestrator is missing dependencies.
var ErrPurchaseUnavailable = errors.New("purchase service: unavailable")

// PurchaseServiceDeps wires every collaborator of the purchase pipeline.
// Notifier may be nil when the deployment has no email channel.
type PurchaseServiceDeps struct {
	Catalog     CatalogService
	Cart        CartService
	Pricer      PricingEngine
	Payments    PaymentService
	Inventory   InventoryService
	Notifier    NotificationService
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type purchaseService struct {
	catalog   CatalogService
	cart      CartService
	pricer    PricingEngine
	payments  PaymentService
	inventory InventoryService
	notifier  NotificationService
	now       func() time.Time
	newID     func() string
	logger    func(context.Context, string, map[string]any)

	// inflight serializes purchase attempts: a second purchase may not begin
	// against the same cart while one is running.
	inflight sync.Mutex
}

// NewPurchaseService constructs the orchestrator, validating required
// collaborators.
func NewPurchaseService(deps PurchaseServiceDeps) (PurchaseService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("purchase service: catalog service is required")
	}
	if deps.Cart == nil {
		return nil, errors.New("purchase service: cart service is required")
	}
	if deps.Pricer == nil {
		return nil, errors.New("purchase service: pricing engine is required")
	}
	if deps.Payments == nil {
		return nil, errors.New("purchase service: payment service is required")
	}
	if deps.Inventory == nil {
		return nil, errors.New("purchase service: inventory service is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := deps.IDGenerator
	if newID == nil {
		newID = func() string { return "ord_" + ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &purchaseService{
		catalog:   deps.Catalog,
		cart:      deps.Cart,
		pricer:    deps.Pricer,
		payments:  deps.Payments,
		inventory: deps.Inventory,
		notifier:  deps.Notifier,
		now:       func() time.Time { return clock().UTC() },
		newID:     newID,
		logger:    logger,
	}, nil
}

// Purchase runs the basic pipeline: plain pricing (subtotal plus tax), the
// default payment method, no coupon, no shipping, no email.
func (s *purchaseService) Purchase(ctx context.Context, cmd PurchaseCommand) (PurchaseResult, error) {
	return s.run(ctx, PurchaseOptionsCommand{PurchaseCommand: cmd}, false)
}

// PurchaseWithOptions runs the extended pipeline with coupon, shipping,
// email, and payment method options.
func (s *purchaseService) PurchaseWithOptions(ctx context.Context, cmd PurchaseOptionsCommand) (PurchaseResult, error) {
	return s.run(ctx, cmd, true)
}

// run executes the purchase state machine. Domain failures come back inside
// PurchaseResult; the error return is reserved for a misconfigured
// orchestrator.
func (s *purchaseService) run(ctx context.Context, cmd PurchaseOptionsCommand, extended bool) (PurchaseResult, error) {
	if s == nil || s.cart == nil {
		return PurchaseResult{}, ErrPurchaseUnavailable
	}

	s.inflight.Lock()
	defer s.inflight.Unlock()

	ctx, span := tracer.Start(ctx, "purchase", trace.WithAttributes(
		attribute.Int("shop.book_id", cmd.BookID),
		attribute.Int("shop.quantity", cmd.Quantity),
		attribute.Bool("shop.extended", extended),
	))
	defer span.End()

	// The rollback point is captured before the cart is reset for this
	// attempt; every failed transition restores it.
	rollback, err := s.cart.Snapshot(ctx)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("purchase service: snapshot cart: %w", err)
	}

	// Searching.
	s.transition(ctx, span, stateSearching)
	books, err := s.catalog.Search(ctx, cmd.Query)
	if err != nil {
		return s.fail(ctx, span, rollback, err.Error()), nil
	}
	if len(books) == 0 {
		return s.fail(ctx, span, rollback, fmt.Sprintf("no books found matching %q", cmd.Query)), nil
	}

	// Carting.
	s.transition(ctx, span, stateCarting)
	if err := s.cart.Reset(ctx); err != nil {
		return s.fail(ctx, span, rollback, err.Error()), nil
	}
	snapshot, err := s.cart.Add(ctx, cmd.BookID, cmd.Quantity)
	if err != nil {
		return s.fail(ctx, span, rollback, err.Error()), nil
	}

	// Pricing.
	s.transition(ctx, span, statePricing)
	var pricing PriceBreakdown
	if extended {
		pricing, err = s.pricer.PriceWithExtras(ctx, snapshot, cmd.CouponCode, cmd.ShippingKey)
	} else {
		pricing, err = s.pricer.Price(ctx, snapshot)
	}
	if err != nil {
		return s.fail(ctx, span, rollback, err.Error()), nil
	}
	if pricing.Total.LessThanOrEqual(decimal.Zero) {
		return s.fail(ctx, span, rollback, "invalid cart total"), nil
	}

	// Paying. A declined or invalid charge must leave every external side
	// effect absent: no stock mutation, no email.
	s.transition(ctx, span, statePaying)
	method := strings.TrimSpace(cmd.PaymentMethod)
	if method == "" {
		method = defaultPaymentMethod
	}
	outcome, err := s.payments.Charge(ctx, pricing.Total, method)
	if err != nil {
		return s.fail(ctx, span, rollback, fmt.Sprintf("payment processing failed: %s", err)), nil
	}

	// Committing.
	s.transition(ctx, span, stateCommitting)
	updatedStocks, err := s.inventory.Commit(ctx, snapshot.Lines)
	if err != nil {
		return s.fail(ctx, span, rollback, err.Error()), nil
	}

	orderID := s.newID()

	// Notifying. A bad address is recorded, never fatal: the inventory is
	// already committed and the purchase stands.
	emailSent := false
	emailID := ""
	recipient := strings.TrimSpace(cmd.Email)
	if extended && recipient != "" && s.notifier != nil {
		s.transition(ctx, span, stateNotifying)
		subject := fmt.Sprintf("%s %s", confirmationSubjectStem, orderID)
		payload := fmt.Sprintf("Order %s confirmed. Total %s.", orderID, pricing.Total.StringFixed(2))
		sent, err := s.notifier.Notify(ctx, recipient, subject, payload)
		if err != nil {
			s.logger(ctx, "purchase.email_failed", map[string]any{
				"orderId": orderID,
				"error":   err.Error(),
			})
		} else {
			emailSent = sent.Sent
			emailID = sent.EmailID
		}
	}

	// Succeeded.
	s.transition(ctx, span, stateSucceeded)
	if err := s.cart.Reset(ctx); err != nil {
		s.logger(ctx, "purchase.cart_clear_failed", map[string]any{"error": err.Error()})
	}

	order := Order{
		OrderID:            orderID,
		TransactionID:      outcome.TransactionID,
		Lines:              snapshot.Lines,
		Pricing:            pricing,
		UpdatedStockLevels: updatedStocks,
		EmailSent:          emailSent,
		EmailID:            emailID,
	}
	s.logger(ctx, "purchase.succeeded", map[string]any{
		"orderId":       orderID,
		"transactionId": outcome.TransactionID,
		"total":         pricing.Total.StringFixed(2),
		"emailSent":     emailSent,
	})
	return PurchaseResult{Success: true, Message: purchaseSucceededMsg, Order: &order}, nil
}

func (s *purchaseService) transition(ctx context.Context, span trace.Span, state purchaseState) {
	span.AddEvent(string(state))
	s.logger(ctx, "purchase.state", map[string]any{"state": string(state)})
}

// fail restores the rollback point and converts the failure into the uniform
// result shape. Low-level errors never escape this boundary raw.
func (s *purchaseService) fail(ctx context.Context, span trace.Span, rollback CartSnapshot, reason string) PurchaseResult {
	span.AddEvent(string(stateFailed))
	span.SetStatus(codes.Error, reason)
	if err := s.cart.Restore(ctx, rollback); err != nil {
		s.logger(ctx, "purchase.rollback_failed", map[string]any{"error": err.Error()})
	}
	s.logger(ctx, "purchase.failed", map[string]any{"reason": reason})
	return PurchaseResult{Success: false, Error: reason, Message: purchaseFailedMessage}
}
