// Package repositories declares the persistence contracts consumed by the
// service layer together with their structured error types.
package repositories

import (
	"context"

	domain "github.com/bookfield/shop/internal/domain"
)

// StockCommitLine is one decrement requested from the catalog store.
type StockCommitLine struct {
	BookID   int
	Quantity int
}

// CatalogRepository persists the book catalog and its stock counters.
//
// CommitStocks is the only write path for stock: it validates every line
// against live stock and applies all decrements atomically, holding the
// store's lock for the whole validate-then-apply sequence so no other commit
// can interleave. ResetStocks restores the seeded levels and exists for test
// and ops support.
type CatalogRepository interface {
	List(ctx context.Context) ([]domain.Book, error)
	FindByID(ctx context.Context, bookID int) (domain.Book, error)
	CommitStocks(ctx context.Context, lines []StockCommitLine) (map[int]int, error)
	ResetStocks(ctx context.Context) error
}

// EmailLogRepository stores the process-wide append-only email log.
type EmailLogRepository interface {
	Append(ctx context.Context, record domain.EmailRecord) error
	List(ctx context.Context) ([]domain.EmailRecord, error)
	Clear(ctx context.Context) error
}
