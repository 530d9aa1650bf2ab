package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
)

// deriveWindow is how far ahead the deriver looks for expiring LCs and
// maturing loans.
const deriveWindow = 30 * 24 * time.Hour

// notificationService derives and serves notifications. Delivery is
// fire-and-forget: a failed save is logged and never surfaces to the caller
// that triggered it.
type notificationService struct {
	BaseService
	notificationRepo portsrepo.NotificationRepository
	invoiceRepo      portsrepo.InvoiceReader
	financeRepo      portsrepo.FinanceRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notificationRepo portsrepo.NotificationRepository, invoiceRepo portsrepo.InvoiceReader, financeRepo portsrepo.FinanceRepository) portssvc.NotificationSvcFacade {
	return &notificationService{
		notificationRepo: notificationRepo,
		invoiceRepo:      invoiceRepo,
		financeRepo:      financeRepo,
	}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

// Notify records a notification unless an unread one for the same entity
// already exists. Failures are logged only.
func (s *notificationService) Notify(ctx context.Context, companyID string, nType domain.NotificationType, severity domain.NotificationSeverity, title, message, entityType, entityID string) {
	_, err := s.notificationRepo.SaveIfAbsent(ctx, domain.Notification{
		NotificationID: uuid.NewString(),
		CompanyID:      companyID,
		Type:           nType,
		Severity:       severity,
		Title:          title,
		Message:        message,
		EntityType:     entityType,
		EntityID:       entityID,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save notification",
			slog.String("company_id", companyID),
			slog.String("type", string(nType)),
			slog.String("entity_id", entityID))
	}
}

// saveDerived persists one derived notification and reports whether it was new.
func (s *notificationService) saveDerived(ctx context.Context, n domain.Notification) (bool, error) {
	n.NotificationID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()
	return s.notificationRepo.SaveIfAbsent(ctx, n)
}

// DeriveNotifications scans for overdue invoices, expiring letters of credit
// and maturing loans, and records one unread notification per condition.
// Re-running is a no-op for conditions already notified and unread.
func (s *notificationService) DeriveNotifications(ctx context.Context, companyID string) (int, error) {
	now := time.Now().UTC()
	created := 0

	overdue, err := s.invoiceRepo.FindOverdueInvoices(ctx, companyID, now)
	if err != nil {
		return created, err
	}
	for _, inv := range overdue {
		inserted, err := s.saveDerived(ctx, domain.Notification{
			CompanyID:  companyID,
			Type:       domain.NotifyInvoiceOverdue,
			Severity:   domain.SeverityWarning,
			Title:      "Invoice overdue",
			Message:    fmt.Sprintf("Invoice %s was due on %s", inv.InvoiceNumber, inv.DueDate.Format("2006-01-02")),
			EntityType: "invoice",
			EntityID:   inv.InvoiceID,
		})
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}

	expiring, err := s.financeRepo.FindExpiringLCs(ctx, companyID, now, deriveWindow)
	if err != nil {
		return created, err
	}
	for _, lc := range expiring {
		inserted, err := s.saveDerived(ctx, domain.Notification{
			CompanyID:  companyID,
			Type:       domain.NotifyLCExpiring,
			Severity:   domain.SeverityWarning,
			Title:      "Letter of credit expiring",
			Message:    fmt.Sprintf("LC %s expires on %s", lc.Number, lc.ExpiryDate.Format("2006-01-02")),
			EntityType: "lc",
			EntityID:   lc.LCID,
		})
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}

	maturing, err := s.financeRepo.FindMaturingLoans(ctx, companyID, now, deriveWindow)
	if err != nil {
		return created, err
	}
	for _, loan := range maturing {
		inserted, err := s.saveDerived(ctx, domain.Notification{
			CompanyID:  companyID,
			Type:       domain.NotifyLoanMaturing,
			Severity:   domain.SeverityWarning,
			Title:      "Loan maturing",
			Message:    fmt.Sprintf("Loan from %s matures on %s", loan.LenderName, loan.MaturityDate.Format("2006-01-02")),
			EntityType: "loan",
			EntityID:   loan.LoanID,
		})
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}

	s.LogInfo(ctx, "Notification derivation complete",
		slog.String("company_id", companyID), slog.Int("created", created))
	return created, nil
}

// ListNotifications retrieves notifications for a company, unread first.
func (s *notificationService) ListNotifications(ctx context.Context, companyID string, actor domain.Identity, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	return s.notificationRepo.ListNotifications(ctx, companyID, unreadOnly, limit, offset)
}

// MarkRead flags a notification of the company as read.
func (s *notificationService) MarkRead(ctx context.Context, companyID, notificationID string, actor domain.Identity) error {
	if err := s.notificationRepo.MarkRead(ctx, companyID, notificationID); err != nil {
		return fmt.Errorf("notification %s: %w", notificationID, err)
	}
	return nil
}
