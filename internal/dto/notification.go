package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// NotificationResponse is the API shape of a notification.
type NotificationResponse struct {
	NotificationID string                      `json:"notificationID"`
	Type           domain.NotificationType     `json:"type"`
	Severity       domain.NotificationSeverity `json:"severity"`
	Title          string                      `json:"title"`
	Message        string                      `json:"message"`
	EntityType     string                      `json:"entityType"`
	EntityID       string                      `json:"entityID"`
	Read           bool                        `json:"read"`
	CreatedAt      time.Time                   `json:"createdAt"`
}

// DeriveNotificationsResponse reports how many notifications a derivation pass created.
type DeriveNotificationsResponse struct {
	Created int `json:"created"`
}

// ToNotificationResponse converts a domain notification to its API shape.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Type:           n.Type,
		Severity:       n.Severity,
		Title:          n.Title,
		Message:        n.Message,
		EntityType:     n.EntityType,
		EntityID:       n.EntityID,
		Read:           n.Read,
		CreatedAt:      n.CreatedAt,
	}
}
