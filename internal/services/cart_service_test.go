package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	domain "github.com/bookfield/shop/internal/domain"
	"github.com/bookfield/shop/internal/repositories"
	"github.com/bookfield/shop/internal/repositories/memory"
)

func newTestCartService(t *testing.T) (CartService, *memory.CatalogStore) {
	t.Helper()
	store := memory.NewCatalogStore(domain.SeedCatalog())
	svc, err := NewCartService(CartServiceDeps{Catalog: store})
	if err != nil {
		t.Fatalf("NewCartService error: %v", err)
	}
	return svc, store
}

func TestCartServiceAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown book", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		_, err := svc.Add(ctx, 999, 1)
		if !errors.Is(err, ErrCartBookNotFound) {
			t.Fatalf("expected ErrCartBookNotFound, got %v", err)
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		if _, err := svc.Add(ctx, 1, 0); !errors.Is(err, ErrCartInvalidQuantity) {
			t.Fatalf("expected ErrCartInvalidQuantity, got %v", err)
		}
		if _, err := svc.Add(ctx, 1, -2); !errors.Is(err, ErrCartInvalidQuantity) {
			t.Fatalf("expected ErrCartInvalidQuantity, got %v", err)
		}
	})

	t.Run("insufficient stock names the available count", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		// Book 4 seeds with stock 2.
		_, err := svc.Add(ctx, 4, 3)
		if !errors.Is(err, ErrCartInsufficientStock) {
			t.Fatalf("expected ErrCartInsufficientStock, got %v", err)
		}
		if !strings.Contains(err.Error(), "2 copies available") {
			t.Fatalf("expected message with available count, got %q", err)
		}
	})

	t.Run("accumulated quantity is checked against stock", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		if _, err := svc.Add(ctx, 4, 2); err != nil {
			t.Fatalf("Add error: %v", err)
		}
		_, err := svc.Add(ctx, 4, 1)
		if !errors.Is(err, ErrCartInsufficientStock) {
			t.Fatalf("expected ErrCartInsufficientStock, got %v", err)
		}
		if !strings.Contains(err.Error(), "0 copies available") {
			t.Fatalf("expected 0 copies available, got %q", err)
		}
	})

	t.Run("existing line accumulates quantity", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		if _, err := svc.Add(ctx, 1, 2); err != nil {
			t.Fatalf("Add error: %v", err)
		}
		snapshot, err := svc.Add(ctx, 1, 1)
		if err != nil {
			t.Fatalf("second Add error: %v", err)
		}
		if len(snapshot.Lines) != 1 {
			t.Fatalf("expected one line, got %d", len(snapshot.Lines))
		}
		if snapshot.Lines[0].Quantity != 3 {
			t.Fatalf("expected quantity 3, got %d", snapshot.Lines[0].Quantity)
		}
	})

	t.Run("line snapshots catalog fields at add-time", func(t *testing.T) {
		svc, store := newTestCartService(t)
		snapshot, err := svc.Add(ctx, 1, 1)
		if err != nil {
			t.Fatalf("Add error: %v", err)
		}
		priceAtAdd := snapshot.Lines[0].Book.UnitPrice

		// Commit stock elsewhere; the line's snapshot must not change.
		if _, err := store.CommitStocks(ctx, []repositories.StockCommitLine{{BookID: 1, Quantity: 2}}); err != nil {
			t.Fatalf("CommitStocks error: %v", err)
		}

		current, err := svc.Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot error: %v", err)
		}
		if !current.Lines[0].Book.UnitPrice.Equal(priceAtAdd) {
			t.Fatalf("line snapshot changed after catalog mutation")
		}
	})

	t.Run("returned snapshot is a defensive copy", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		snapshot, err := svc.Add(ctx, 1, 1)
		if err != nil {
			t.Fatalf("Add error: %v", err)
		}
		snapshot.Lines[0].Quantity = 99

		current, err := svc.Snapshot(ctx)
		if err != nil {
			t.Fatalf("Snapshot error: %v", err)
		}
		if current.Lines[0].Quantity != 1 {
			t.Fatalf("mutating a snapshot leaked into cart state")
		}
	})
}

func TestCartServiceResetAndRestore(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestCartService(t)

	before, err := svc.Add(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}

	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	empty, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if !empty.Empty() {
		t.Fatalf("expected empty cart after reset, got %d lines", len(empty.Lines))
	}

	if err := svc.Restore(ctx, before); err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	restored, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if len(restored.Lines) != 1 || restored.Lines[0].Quantity != 2 {
		t.Fatalf("expected restored cart, got %+v", restored)
	}
}
