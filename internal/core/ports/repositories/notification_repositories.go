package repositories

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// NotificationRepository persists derived notifications.
type NotificationRepository interface {
	// SaveIfAbsent inserts a notification unless an unread one with the same
	// (company, type, entity) already exists. It reports whether a row was
	// inserted.
	SaveIfAbsent(ctx context.Context, n domain.Notification) (bool, error)

	// ListNotifications retrieves notifications for a company, unread first,
	// newest first.
	ListNotifications(ctx context.Context, companyID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error)

	// MarkRead flags a notification of the company as read.
	MarkRead(ctx context.Context, companyID, notificationID string) error
}
