package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookfield/shop/internal/repositories"
)

var (
	// ErrInventoryUnavailable indicates the inventory service is missing its repository.
	ErrInventoryUnavailable = errors.New("inventory service: unavailable")
	// ErrInventoryInvalidInput signals the caller provided invalid lines.
	ErrInventoryInvalidInput = errors.New("inventory service: invalid input")
	// ErrInventoryInsufficientStock indicates a line exceeds live availability.
	ErrInventoryInsufficientStock = errors.New("inventory service: insufficient stock")
)

// InventoryServiceDeps bundles the collaborators of the inventory service.
type InventoryServiceDeps struct {
	Catalog repositories.CatalogRepository
	Clock   func() time.Time
	Logger  func(ctx context.Context, event string, fields map[string]any)
}

type inventoryService struct {
	repo   repositories.CatalogRepository
	now    func() time.Time
	logger func(context.Context, string, map[string]any)
}

// NewInventoryService wires dependencies into a concrete InventoryService.
func NewInventoryService(deps InventoryServiceDeps) (InventoryService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("inventory service: catalog repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &inventoryService{
		repo:   deps.Catalog,
		now:    func() time.Time { return clock().UTC() },
		logger: logger,
	}, nil
}

// Commit decrements stock for every cart line using the store's two-phase
// discipline: every line is re-validated against live stock (not the
// quantity captured at add-time) and only then are the decrements applied,
// all inside one critical section. Either all lines commit or none do.
func (s *inventoryService) Commit(ctx context.Context, lines []CartLine) (map[int]int, error) {
	if s == nil || s.repo == nil {
		return nil, ErrInventoryUnavailable
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line is required", ErrInventoryInvalidInput)
	}

	commits := make([]repositories.StockCommitLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for book %d must be positive", ErrInventoryInvalidInput, line.Book.ID)
		}
		commits = append(commits, repositories.StockCommitLine{BookID: line.Book.ID, Quantity: line.Quantity})
	}

	updated, err := s.repo.CommitStocks(ctx, commits)
	if err != nil {
		return nil, s.mapRepositoryError(err)
	}

	s.logger(ctx, "inventory.committed", map[string]any{
		"lines": len(commits),
	})
	return updated, nil
}

// Reset restores the seeded stock levels. Test and ops support only.
func (s *inventoryService) Reset(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return ErrInventoryUnavailable
	}
	return s.repo.ResetStocks(ctx)
}

func (s *inventoryService) mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	var catErr *repositories.CatalogError
	if errors.As(err, &catErr) {
		switch catErr.Code {
		case repositories.CatalogErrorInsufficientStock:
			return fmt.Errorf("%w: %s", ErrInventoryInsufficientStock, catErr.Message)
		case repositories.CatalogErrorBookNotFound:
			return fmt.Errorf("%w: %s", ErrInventoryInvalidInput, catErr.Message)
		}
	}
	return err
}
