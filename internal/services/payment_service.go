package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

var (
	// ErrPaymentInvalidAmount indicates a non-positive charge amount.
	ErrPaymentInvalidAmount = errors.New("payment service: invalid amount")
	// ErrPaymentUnsupportedMethod indicates the payment method is not accepted.
	ErrPaymentUnsupportedMethod = errors.New("payment service: unsupported method")
	// ErrPaymentDeclined indicates the simulated gateway rejected the charge.
	ErrPaymentDeclined = errors.New("payment service: payment declined")
)

const defaultApprovalRate = 0.8

var supportedPaymentMethods = map[string]struct{}{
	"credit": {},
	"debit":  {},
	"paypal": {},
}

// PaymentServiceDeps configures the simulated gateway. Rand is the single
// nondeterministic input of the purchase pipeline; inject a fixed function
// for deterministic tests.
type PaymentServiceDeps struct {
	ApprovalRate float64
	Rand         func() float64
	IDGenerator  func() string
	Clock        func() time.Time
	Logger       func(ctx context.Context, event string, fields map[string]any)
}

type paymentService struct {
	approvalRate float64
	draw         func() float64
	newID        func() string
	now          func() time.Time
	logger       func(context.Context, string, map[string]any)
}

// NewPaymentService wires the payment simulator. Transaction ids combine a
// millisecond timestamp with monotonic entropy (ULID), so two charges in the
// same instant still get distinct ids.
func NewPaymentService(deps PaymentServiceDeps) (PaymentService, error) {
	rate := deps.ApprovalRate
	if rate <= 0 || rate > 1 {
		rate = defaultApprovalRate
	}
	draw := deps.Rand
	if draw == nil {
		draw = rand.Float64
	}
	newID := deps.IDGenerator
	if newID == nil {
		newID = func() string { return "txn_" + ulid.Make().String() }
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &paymentService{
		approvalRate: rate,
		draw:         draw,
		newID:        newID,
		now:          func() time.Time { return clock().UTC() },
		logger:       logger,
	}, nil
}

// Charge simulates one gateway round trip. Validation failures and declines
// are reported as errors so the orchestrator can catch them at its boundary.
func (s *paymentService) Charge(ctx context.Context, amount decimal.Decimal, method string) (PaymentOutcome, error) {
	if s == nil || s.draw == nil {
		return PaymentOutcome{}, errors.New("payment service: unavailable")
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return PaymentOutcome{}, fmt.Errorf("%w: %s", ErrPaymentInvalidAmount, amount.StringFixed(2))
	}

	normalized := strings.ToLower(strings.TrimSpace(method))
	if _, ok := supportedPaymentMethods[normalized]; !ok {
		return PaymentOutcome{}, fmt.Errorf("%w: %q", ErrPaymentUnsupportedMethod, method)
	}

	if s.draw() >= s.approvalRate {
		s.logger(ctx, "payment.declined", map[string]any{
			"amount": amount.StringFixed(2),
			"method": normalized,
		})
		return PaymentOutcome{Accepted: false}, ErrPaymentDeclined
	}

	outcome := PaymentOutcome{Accepted: true, TransactionID: s.newID()}
	s.logger(ctx, "payment.accepted", map[string]any{
		"amount":        amount.StringFixed(2),
		"method":        normalized,
		"transactionId": outcome.TransactionID,
	})
	return outcome, nil
}
