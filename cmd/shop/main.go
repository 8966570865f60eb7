// Command shop runs a demo session against the simulated checkout pipeline:
// it searches the catalog, performs a basic purchase, then an extended one
// with a coupon, express shipping, and a confirmation email.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/bookfield/shop/internal/di"
	"github.com/bookfield/shop/internal/platform/config"
	"github.com/bookfield/shop/internal/platform/observability"
	"github.com/bookfield/shop/internal/services"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	baseLogger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("shop")

	container, err := di.NewContainer(ctx, cfg, observability.EventLogger(logger))
	if err != nil {
		logger.Fatal("failed to build container", zap.Error(err))
	}
	session := container.Session

	books, err := session.SearchBooks(ctx, "library")
	if err != nil {
		logger.Fatal("search failed", zap.Error(err))
	}
	for _, book := range books {
		logger.Info("search hit",
			zap.Int("id", book.ID),
			zap.String("title", book.Title),
			zap.String("price", book.UnitPrice.StringFixed(2)),
			zap.Int("stock", book.Stock),
		)
	}

	basic, err := session.Purchase(ctx, services.PurchaseCommand{
		Query:    "library",
		BookID:   1,
		Quantity: 1,
	})
	if err != nil {
		logger.Fatal("purchase failed to run", zap.Error(err))
	}
	reportResult(logger, "basic purchase", basic)

	extended, err := session.PurchaseWithOptions(ctx, services.PurchaseOptionsCommand{
		PurchaseCommand: services.PurchaseCommand{
			Query:    "hail mary",
			BookID:   2,
			Quantity: 1,
		},
		CouponCode:    "SAVE10",
		ShippingKey:   "express",
		Email:         "reader@example.com",
		PaymentMethod: "paypal",
	})
	if err != nil {
		logger.Fatal("purchase failed to run", zap.Error(err))
	}
	reportResult(logger, "extended purchase", extended)

	emails, err := session.GetEmailLog(ctx)
	if err != nil {
		logger.Fatal("email log read failed", zap.Error(err))
	}
	logger.Info("email log", zap.Int("entries", len(emails)))
}

func reportResult(logger *zap.Logger, label string, result services.PurchaseResult) {
	if !result.Success {
		logger.Warn(label,
			zap.Bool("success", false),
			zap.String("error", result.Error),
		)
		return
	}
	order := result.Order
	logger.Info(label,
		zap.Bool("success", true),
		zap.String("orderId", order.OrderID),
		zap.String("transactionId", order.TransactionID),
		zap.String("total", order.Pricing.Total.StringFixed(2)),
		zap.Bool("emailSent", order.EmailSent),
	)
}
