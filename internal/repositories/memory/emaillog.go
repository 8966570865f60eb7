package memory

import (
	"context"
	"sync"

	domain "github.com/bookfield/shop/internal/domain"
)

// EmailLog is the process-wide append-only log of simulated email sends.
type EmailLog struct {
	mu      sync.RWMutex
	records []domain.EmailRecord
}

// NewEmailLog returns an empty log.
func NewEmailLog() *EmailLog {
	return &EmailLog{}
}

// Append adds a record to the log. Records are never mutated after append.
func (l *EmailLog) Append(ctx context.Context, record domain.EmailRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

// List returns a copy of the log in append order.
func (l *EmailLog) List(ctx context.Context) ([]domain.EmailRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.EmailRecord, len(l.records))
	copy(out, l.records)
	return out, nil
}

// Clear empties the log.
func (l *EmailLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
	return nil
}
