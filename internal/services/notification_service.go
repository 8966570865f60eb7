package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/bookfield/shop/internal/domain"
	"github.com/bookfield/shop/internal/repositories"
)

var (
	// ErrNotifyUnavailable indicates the notification service is missing its log.
	ErrNotifyUnavailable = errors.New("notification service: unavailable")
	// ErrNotifyInvalidRecipient indicates the recipient address is malformed.
	ErrNotifyInvalidRecipient = errors.New("notification service: invalid recipient")
)

const emailStatusSent = "sent"

// NotificationServiceDeps bundles the collaborators of the notifier.
type NotificationServiceDeps struct {
	EmailLog    repositories.EmailLogRepository
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type notificationService struct {
	log    repositories.EmailLogRepository
	now    func() time.Time
	newID  func() string
	logger func(context.Context, string, map[string]any)
}

// NewNotificationService wires a NotificationService backed by the given log.
func NewNotificationService(deps NotificationServiceDeps) (NotificationService, error) {
	if deps.EmailLog == nil {
		return nil, errors.New("notification service: email log is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := deps.IDGenerator
	if newID == nil {
		newID = func() string { return "email_" + uuid.NewString() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &notificationService{
		log:    deps.EmailLog,
		now:    func() time.Time { return clock().UTC() },
		newID:  newID,
		logger: logger,
	}, nil
}

// Notify simulates one email send. An address without "@" fails before any
// log entry is written; success appends a record and reports its id.
func (s *notificationService) Notify(ctx context.Context, recipient, subject, payload string) (EmailOutcome, error) {
	if s == nil || s.log == nil {
		return EmailOutcome{}, ErrNotifyUnavailable
	}

	address := strings.TrimSpace(recipient)
	if !strings.Contains(address, "@") {
		return EmailOutcome{Sent: false}, fmt.Errorf("%w: %q", ErrNotifyInvalidRecipient, recipient)
	}

	record := domain.EmailRecord{
		ID:        s.newID(),
		Recipient: address,
		Subject:   subject,
		Payload:   payload,
		Timestamp: s.now(),
		Status:    emailStatusSent,
	}
	if err := s.log.Append(ctx, record); err != nil {
		return EmailOutcome{}, fmt.Errorf("notification service: append: %w", err)
	}

	s.logger(ctx, "email.sent", map[string]any{
		"emailId":   record.ID,
		"recipient": address,
		"subject":   subject,
	})
	return EmailOutcome{Sent: true, EmailID: record.ID}, nil
}

// Log returns the append-only email log.
func (s *notificationService) Log(ctx context.Context) ([]EmailRecord, error) {
	if s == nil || s.log == nil {
		return nil, ErrNotifyUnavailable
	}
	return s.log.List(ctx)
}

// ClearLog empties the log. Test and ops support only.
func (s *notificationService) ClearLog(ctx context.Context) error {
	if s == nil || s.log == nil {
		return ErrNotifyUnavailable
	}
	return s.log.Clear(ctx)
}
