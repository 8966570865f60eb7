package repositories

import "fmt"

// CatalogErrorCode enumerates repository error causes for catalog operations.
type CatalogErrorCode string

const (
	// CatalogErrorUnknown represents an unspecified failure.
	CatalogErrorUnknown CatalogErrorCode = "catalog_unknown"
	// CatalogErrorBookNotFound indicates the book id has no catalog record.
	CatalogErrorBookNotFound CatalogErrorCode = "catalog_book_not_found"
	// CatalogErrorInsufficientStock indicates a requested quantity exceeds availability.
	CatalogErrorInsufficientStock CatalogErrorCode = "catalog_insufficient_stock"
)

// CatalogError wraps catalog-specific failures with machine readable codes.
// Available carries the live stock count when the code is
// CatalogErrorInsufficientStock.
type CatalogError struct {
	Op        string
	Code      CatalogErrorCode
	BookID    int
	Available int
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	if e == nil {
		return ""
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying error, if any.
func (e *CatalogError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewCatalogError constructs a typed catalog error.
func NewCatalogError(code CatalogErrorCode, message string, err error) *CatalogError {
	if message == "" {
		message = string(code)
	}
	return &CatalogError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
