package services

import (
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
)

// NewServiceContainer wires the service layer on top of a repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	notificationSvc := NewNotificationService(repos.NotificationRepo, repos.InvoiceRepo, repos.FinanceRepo)

	return &portssvc.ServiceContainer{
		Account:      NewAccountService(repos.AccountRepo),
		Journal:      NewJournalService(repos.JournalRepo, repos.AccountRepo, notificationSvc),
		Invoice:      NewInvoiceService(repos.InvoiceRepo, repos.AccountRepo, repos.PartyRepo, notificationSvc),
		Reporting:    NewReportingService(repos.ReportingRepo),
		Company:      NewCompanyService(repos.CompanyRepo),
		Party:        NewPartyService(repos.PartyRepo),
		Finance:      NewFinanceService(repos.FinanceRepo, repos.PartyRepo),
		Notification: notificationSvc,
	}
}
