package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/bookfield/shop/internal/repositories"
)

var (
	// ErrCatalogUnavailable indicates the catalog service is missing its repository.
	ErrCatalogUnavailable = errors.New("catalog service: unavailable")
	// ErrCatalogBookNotFound indicates the requested book id has no catalog record.
	ErrCatalogBookNotFound = errors.New("catalog service: book not found")
)

// CatalogServiceDeps bundles the collaborators required to construct a catalog service.
type CatalogServiceDeps struct {
	Catalog repositories.CatalogRepository
	Clock   func() time.Time
	Logger  func(ctx context.Context, event string, fields map[string]any)
}

type catalogService struct {
	repo   repositories.CatalogRepository
	now    func() time.Time
	logger func(context.Context, string, map[string]any)
	folder cases.Caser
}

// NewCatalogService wires a CatalogService backed by the provided repository.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("catalog service: catalog repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &catalogService{
		repo:   deps.Catalog,
		now:    func() time.Time { return clock().UTC() },
		logger: logger,
		folder: cases.Fold(),
	}, nil
}

// Search matches the query case-insensitively against title or author.
// A blank query yields an empty result, not an error.
func (s *catalogService) Search(ctx context.Context, query string) ([]Book, error) {
	if s == nil || s.repo == nil {
		return nil, ErrCatalogUnavailable
	}

	needle := s.folder.String(strings.TrimSpace(query))
	if needle == "" {
		return []Book{}, nil
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog service: list: %w", err)
	}

	matches := make([]Book, 0, len(books))
	for _, book := range books {
		if strings.Contains(s.folder.String(book.Title), needle) ||
			strings.Contains(s.folder.String(book.Author), needle) {
			matches = append(matches, book)
		}
	}

	s.logger(ctx, "catalog.search", map[string]any{
		"query":   query,
		"matches": len(matches),
	})
	return matches, nil
}

// Get returns the book for the id, translating repository errors into the
// service sentinel.
func (s *catalogService) Get(ctx context.Context, bookID int) (Book, error) {
	if s == nil || s.repo == nil {
		return Book{}, ErrCatalogUnavailable
	}

	book, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		var catErr *repositories.CatalogError
		if errors.As(err, &catErr) && catErr.Code == repositories.CatalogErrorBookNotFound {
			return Book{}, fmt.Errorf("%w: id %d", ErrCatalogBookNotFound, bookID)
		}
		return Book{}, fmt.Errorf("catalog service: find: %w", err)
	}
	return book, nil
}
