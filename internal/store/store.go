package store

import (
	"context"

	"github.com/nhle/sitehub-notify/internal/model"
)

// NotificationFilter controls filtering and pagination for notification
// queries. Results are always ordered newest first.
type NotificationFilter struct {
	UserID     int64
	UnreadOnly bool
	Type       *model.NotificationType
	Limit      int
	Offset     int
}

// NotificationStore defines the persistence interface for notifications.
type NotificationStore interface {
	// CreateNotification persists n and returns the stored record with its
	// ID and CreatedAt assigned and IsRead false.
	CreateNotification(ctx context.Context, n model.Notification) (*model.Notification, error)

	GetNotificationByID(ctx context.Context, id string) (*model.Notification, error)
	GetNotifications(ctx context.Context, filter NotificationFilter) ([]model.Notification, error)
	GetUnreadNotifications(ctx context.Context, userID int64) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int, error)

	// Read state belongs to the recipient; the notification engine never
	// calls these.
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}
