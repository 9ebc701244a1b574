package services

import (
	"context"
	"fmt"

	"github.com/emre/resitdesk/internal/app/models"
	"github.com/emre/resitdesk/internal/pkg/logger"
)

// Event is a notification descriptor handed to the dispatcher. The engine
// produces events; rendering and delivery belong to external collaborators.
type Event struct {
	UserID   int64
	Type     string
	Title    string
	Message  string
	EntityID int64
}

// Dispatcher receives event descriptors after the producing transaction has
// committed. Implementations must not fail the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, events []Event)
}

// PersistingDispatcher stores events as notification rows for later delivery
// by the external notification system.
type PersistingDispatcher struct {
	notifications NotificationStore
}

// NewPersistingDispatcher creates a new PersistingDispatcher
func NewPersistingDispatcher(notifications NotificationStore) *PersistingDispatcher {
	return &PersistingDispatcher{notifications: notifications}
}

// Dispatch persists the events. Failures are logged, never propagated; the
// domain change that produced the events has already committed.
func (d *PersistingDispatcher) Dispatch(ctx context.Context, events []Event) {
	if len(events) == 0 {
		return
	}

	rows := make([]models.Notification, 0, len(events))
	for _, e := range events {
		rows = append(rows, models.Notification{
			UserID:          e.UserID,
			Type:            e.Type,
			Title:           e.Title,
			Message:         e.Message,
			RelatedEntityID: e.EntityID,
		})
	}

	if err := d.notifications.CreateBatch(ctx, rows); err != nil {
		logger.Error().Err(err).Int("count", len(rows)).Msg("Failed to persist notifications")
		return
	}
	logger.Info().Int("count", len(rows)).Str("type", events[0].Type).Msg("Notifications dispatched")
}

// NotificationService serves the user-facing notification surface.
type NotificationService struct {
	notifications NotificationStore
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// ListForUser lists the caller's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	notifications, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID int64) error {
	return s.notifications.MarkRead(ctx, notificationID, userID)
}
