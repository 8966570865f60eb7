package di

import (
	"context"
	"testing"

	"github.com/bookfield/shop/internal/platform/config"
)

func TestNewContainerWiresTheSessionSurface(t *testing.T) {
	ctx := context.Background()

	cfg := config.Config{}
	cfg.Payment.Seed = 1 // deterministic gateway draws
	container, err := NewContainer(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("NewContainer error: %v", err)
	}
	session := container.Session

	books, err := session.SearchBooks(ctx, "piranesi")
	if err != nil {
		t.Fatalf("SearchBooks error: %v", err)
	}
	if len(books) != 1 || books[0].ID != 5 {
		t.Fatalf("expected book 5, got %+v", books)
	}

	if _, err := session.AddToCart(ctx, 5, 2); err != nil {
		t.Fatalf("AddToCart error: %v", err)
	}
	breakdown, err := session.CalculateTotal(ctx)
	if err != nil {
		t.Fatalf("CalculateTotal error: %v", err)
	}
	// 2 x 11.25 = 22.50 subtotal, 2.25 tax.
	if got := breakdown.Total.StringFixed(2); got != "24.75" {
		t.Fatalf("total: want 24.75, got %s", got)
	}

	updated, err := session.UpdateInventory(ctx)
	if err != nil {
		t.Fatalf("UpdateInventory error: %v", err)
	}
	if updated[5] != 4 {
		t.Fatalf("expected stock 4 after commit, got %v", updated)
	}

	if err := session.ResetInventory(ctx); err != nil {
		t.Fatalf("ResetInventory error: %v", err)
	}
	if err := session.ResetCart(ctx); err != nil {
		t.Fatalf("ResetCart error: %v", err)
	}
	cart, err := session.GetCart(ctx)
	if err != nil {
		t.Fatalf("GetCart error: %v", err)
	}
	if !cart.Empty() {
		t.Fatalf("expected empty cart, got %d lines", len(cart.Lines))
	}
}

func TestNewContainerDefaultsShippingKey(t *testing.T) {
	ctx := context.Background()

	cfg := config.Config{}
	cfg.Shipping.DefaultKey = "express"
	container, err := NewContainer(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("NewContainer error: %v", err)
	}

	if _, err := container.Session.AddToCart(ctx, 1, 1); err != nil {
		t.Fatalf("AddToCart error: %v", err)
	}
	breakdown, err := container.Session.CalculateTotalWithExtras(ctx, "", "no-such-key")
	if err != nil {
		t.Fatalf("CalculateTotalWithExtras error: %v", err)
	}
	if breakdown.ShippingMethodName != "Express Shipping" {
		t.Fatalf("expected configured default shipping, got %q", breakdown.ShippingMethodName)
	}
}
