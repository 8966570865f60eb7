// Package di assembles the in-memory stores and services into a runnable
// shop session.
package di

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	domain "github.com/bookfield/shop/internal/domain"
	"github.com/bookfield/shop/internal/platform/config"
	"github.com/bookfield/shop/internal/repositories/memory"
	"github.com/bookfield/shop/internal/services"
)

// Container wires stores and services for runtime use. The catalog store and
// email log are process-wide; the session (and its cart) models the single
// active customer.
type Container struct {
	Config   config.Config
	Catalog  *memory.CatalogStore
	EmailLog *memory.EmailLog
	Session  *services.Session
}

// NewContainer constructs the runtime dependencies. The logger hook may be
// nil; services then stay silent.
func NewContainer(ctx context.Context, cfg config.Config, logger func(ctx context.Context, event string, fields map[string]any)) (*Container, error) {
	catalogStore := memory.NewCatalogStore(domain.SeedCatalog())
	emailLog := memory.NewEmailLog()

	catalogSvc, err := services.NewCatalogService(services.CatalogServiceDeps{
		Catalog: catalogStore,
		Clock:   time.Now,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build catalog service: %w", err)
	}

	cartSvc, err := services.NewCartService(services.CartServiceDeps{
		Catalog: catalogStore,
		Clock:   time.Now,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build cart service: %w", err)
	}

	couponSvc, err := services.NewCouponService(services.CouponServiceDeps{
		Coupons: domain.DefaultCoupons(),
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build coupon service: %w", err)
	}

	pricer, err := services.NewPricingEngine(services.PricingEngineDeps{
		Coupons:         couponSvc,
		ShippingOptions: domain.DefaultShippingOptions(),
		DefaultShipping: cfg.Shipping.DefaultKey,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build pricing engine: %w", err)
	}

	paymentDeps := services.PaymentServiceDeps{
		ApprovalRate: cfg.Payment.ApprovalRate,
		Clock:        time.Now,
		Logger:       logger,
	}
	if cfg.Payment.Seed != 0 {
		seeded := rand.New(rand.NewSource(cfg.Payment.Seed))
		paymentDeps.Rand = seeded.Float64
	}
	paymentSvc, err := services.NewPaymentService(paymentDeps)
	if err != nil {
		return nil, fmt.Errorf("build payment service: %w", err)
	}

	inventorySvc, err := services.NewInventoryService(services.InventoryServiceDeps{
		Catalog: catalogStore,
		Clock:   time.Now,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build inventory service: %w", err)
	}

	notifierSvc, err := services.NewNotificationService(services.NotificationServiceDeps{
		EmailLog: emailLog,
		Clock:    time.Now,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build notification service: %w", err)
	}

	purchaseSvc, err := services.NewPurchaseService(services.PurchaseServiceDeps{
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Pricer:    pricer,
		Payments:  paymentSvc,
		Inventory: inventorySvc,
		Notifier:  notifierSvc,
		Clock:     time.Now,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build purchase service: %w", err)
	}

	return &Container{
		Config:   cfg,
		Catalog:  catalogStore,
		EmailLog: emailLog,
		Session: &services.Session{
			Catalog:   catalogSvc,
			Cart:      cartSvc,
			Coupons:   couponSvc,
			Pricer:    pricer,
			Payments:  paymentSvc,
			Inventory: inventorySvc,
			Notifier:  notifierSvc,
			Purchases: purchaseSvc,
		},
	}, nil
}
