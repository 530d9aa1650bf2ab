package domain

import "time"

// NotificationType identifies the ledger condition a notification was derived from.
type NotificationType string

const (
	NotifyEntrySubmitted NotificationType = "ENTRY_SUBMITTED"
	NotifyInvoiceOverdue NotificationType = "INVOICE_OVERDUE"
	NotifyLCExpiring     NotificationType = "LC_EXPIRING"
	NotifyLoanMaturing   NotificationType = "LOAN_MATURING"
)

// NotificationSeverity is the display severity of a notification.
type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "INFO"
	SeverityWarning NotificationSeverity = "WARNING"
)

// Notification is a fire-and-forget message derived from ledger state.
// Unread notifications are deduplicated by (company, type, entity).
type Notification struct {
	NotificationID string               `json:"notificationID"` // Primary Key (e.g., UUID)
	CompanyID      string               `json:"companyID"`
	Type           NotificationType     `json:"type"`
	Severity       NotificationSeverity `json:"severity"`
	Title          string               `json:"title"`
	Message        string               `json:"message"`
	EntityType     string               `json:"entityType"` // e.g. "journal_entry", "invoice", "lc", "loan"
	EntityID       string               `json:"entityID"`
	Read           bool                 `json:"read"`
	CreatedAt      time.Time            `json:"createdAt"`
}
