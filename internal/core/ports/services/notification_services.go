package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// Notifier is the fire-and-forget notification sink consumed by ledger
// operations. Implementations must never propagate failures to the caller.
type Notifier interface {
	Notify(ctx context.Context, companyID string, nType domain.NotificationType, severity domain.NotificationSeverity, title, message, entityType, entityID string)
}

// NotificationSvcFacade derives and serves notifications.
type NotificationSvcFacade interface {
	Notifier

	// DeriveNotifications scans ledger state (overdue invoices, expiring LCs,
	// maturing loans) and records one unread notification per condition. It
	// is idempotent: re-running produces no duplicates. Returns the number of
	// newly created notifications.
	DeriveNotifications(ctx context.Context, companyID string) (int, error)

	ListNotifications(ctx context.Context, companyID string, actor domain.Identity, unreadOnly bool, limit, offset int) ([]domain.Notification, error)

	MarkRead(ctx context.Context, companyID, notificationID string, actor domain.Identity) error
}
