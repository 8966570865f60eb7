// Package memory provides mutex-guarded in-memory implementations of the
// repository contracts. The process owns all state; nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/bookfield/shop/internal/domain"
	"github.com/bookfield/shop/internal/repositories"
)

// CatalogStore keeps the catalog in memory. The mutex is held across the
// whole validate-then-apply sequence of CommitStocks, making each commit a
// critical section.
type CatalogStore struct {
	mu    sync.RWMutex
	books map[int]domain.Book
	seed  []domain.Book
}

// NewCatalogStore seeds a store with the given books.
func NewCatalogStore(seed []domain.Book) *CatalogStore {
	s := &CatalogStore{seed: make([]domain.Book, len(seed))}
	copy(s.seed, seed)
	s.books = buildIndex(s.seed)
	return s
}

func buildIndex(books []domain.Book) map[int]domain.Book {
	index := make(map[int]domain.Book, len(books))
	for _, b := range books {
		index[b.ID] = b
	}
	return index
}

// List returns every book ordered by id.
func (s *CatalogStore) List(ctx context.Context) ([]domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]domain.Book, 0, len(s.books))
	for _, b := range s.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

// FindByID returns the book for the id or a typed not-found error.
func (s *CatalogStore) FindByID(ctx context.Context, bookID int) (domain.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[bookID]
	if !ok {
		return domain.Book{}, &repositories.CatalogError{
			Op:      "catalog.find",
			Code:    repositories.CatalogErrorBookNotFound,
			BookID:  bookID,
			Message: fmt.Sprintf("book %d not found", bookID),
		}
	}
	return book, nil
}

// CommitStocks validates every line against live stock and, only when all
// pass, applies every decrement. Partial application never happens: a single
// failing line aborts the whole commit before any write.
func (s *CatalogStore) CommitStocks(ctx context.Context, lines []repositories.StockCommitLine) (map[int]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Phase 1: validate all lines against current stock.
	for _, line := range lines {
		book, ok := s.books[line.BookID]
		if !ok {
			return nil, &repositories.CatalogError{
				Op:      "catalog.commit",
				Code:    repositories.CatalogErrorBookNotFound,
				BookID:  line.BookID,
				Message: fmt.Sprintf("book %d not found", line.BookID),
			}
		}
		if line.Quantity <= 0 || line.Quantity > book.Stock {
			return nil, &repositories.CatalogError{
				Op:        "catalog.commit",
				Code:      repositories.CatalogErrorInsufficientStock,
				BookID:    line.BookID,
				Available: book.Stock,
				Message:   fmt.Sprintf("insufficient stock for %q: %d copies available", book.Title, book.Stock),
			}
		}
	}

	// Phase 2: apply all decrements.
	updated := make(map[int]int, len(lines))
	for _, line := range lines {
		book := s.books[line.BookID]
		book.Stock -= line.Quantity
		s.books[line.BookID] = book
		updated[line.BookID] = book.Stock
	}
	return updated, nil
}

// ResetStocks restores every stock counter to its seeded level.
func (s *CatalogStore) ResetStocks(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seeded := range s.seed {
		book, ok := s.books[seeded.ID]
		if !ok {
			s.books[seeded.ID] = seeded
			continue
		}
		book.Stock = seeded.Stock
		s.books[seeded.ID] = book
	}
	return nil
}
