package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bookfield/shop/internal/repositories"
)

var (
	// ErrCartUnavailable indicates the cart service is missing dependencies.
	ErrCartUnavailable = errors.New("cart service: unavailable")
	// ErrCartBookNotFound indicates the book id does not exist in the catalog.
	ErrCartBookNotFound = errors.New("cart service: book not found")
	// ErrCartInvalidQuantity indicates a non-positive quantity was requested.
	ErrCartInvalidQuantity = errors.New("cart service: quantity must be positive")
	// ErrCartInsufficientStock indicates the cart would exceed available stock.
	ErrCartInsufficientStock = errors.New("cart service: insufficient stock")
)

// CartServiceDeps wires the catalog dependency for cart operations.
type CartServiceDeps struct {
	Catalog repositories.CatalogRepository
	Clock   func() time.Time
	Logger  func(ctx context.Context, event string, fields map[string]any)
}

// cartService owns one session's cart. The shop models a single active
// session, so cart state lives here rather than in a repository; the mutex
// only guards against accidental concurrent use, it is not a multi-session
// design.
type cartService struct {
	catalog repositories.CatalogRepository
	now     func() time.Time
	logger  func(context.Context, string, map[string]any)

	mu    sync.Mutex
	lines map[int]CartLine
}

// NewCartService constructs a CartService enforcing dependency validation.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("cart service: catalog repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &cartService{
		catalog: deps.Catalog,
		now:     func() time.Time { return clock().UTC() },
		logger:  logger,
		lines:   make(map[int]CartLine),
	}, nil
}

// Add validates and applies one cart mutation. Validations run in a fixed
// order: the book must exist, the quantity must be positive, and the
// accumulated quantity must not exceed live stock. On success the returned
// snapshot is a defensive copy; the caller cannot reach internal state
// through it.
func (s *cartService) Add(ctx context.Context, bookID int, quantity int) (CartSnapshot, error) {
	if s == nil || s.catalog == nil {
		return CartSnapshot{}, ErrCartUnavailable
	}

	book, err := s.catalog.FindByID(ctx, bookID)
	if err != nil {
		var catErr *repositories.CatalogError
		if errors.As(err, &catErr) && catErr.Code == repositories.CatalogErrorBookNotFound {
			return CartSnapshot{}, fmt.Errorf("%w: id %d", ErrCartBookNotFound, bookID)
		}
		return CartSnapshot{}, fmt.Errorf("cart service: find book: %w", err)
	}

	if quantity <= 0 {
		return CartSnapshot{}, fmt.Errorf("%w: got %d", ErrCartInvalidQuantity, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.lines[bookID].Quantity
	if existing+quantity > book.Stock {
		available := book.Stock - existing
		if available < 0 {
			available = 0
		}
		return CartSnapshot{}, fmt.Errorf("%w: %d copies available", ErrCartInsufficientStock, available)
	}

	line, ok := s.lines[bookID]
	if ok {
		line.Quantity += quantity
	} else {
		// Snapshot the catalog fields at add-time so later stock changes do
		// not rewrite a line that is already in the cart.
		line = CartLine{Book: book, Quantity: quantity}
	}
	s.lines[bookID] = line

	s.logger(ctx, "cart.add", map[string]any{
		"bookId":   bookID,
		"quantity": quantity,
		"lines":    len(s.lines),
	})
	return s.snapshotLocked(), nil
}

// Reset clears the cart. The orchestrator calls it at the start of each
// purchase attempt and after a successful one.
func (s *cartService) Reset(ctx context.Context) error {
	if s == nil {
		return ErrCartUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[int]CartLine)
	return nil
}

// Snapshot returns a defensive copy of the current cart.
func (s *cartService) Snapshot(ctx context.Context) (CartSnapshot, error) {
	if s == nil {
		return CartSnapshot{}, ErrCartUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Restore replaces the cart contents with the given snapshot. It backs the
// orchestrator's rollback-point semantics.
func (s *cartService) Restore(ctx context.Context, snapshot CartSnapshot) error {
	if s == nil {
		return ErrCartUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[int]CartLine, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		s.lines[line.Book.ID] = line
	}
	return nil
}

func (s *cartService) snapshotLocked() CartSnapshot {
	lines := make([]CartLine, 0, len(s.lines))
	for _, line := range s.lines {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Book.ID < lines[j].Book.ID })
	return CartSnapshot{Lines: lines}
}
