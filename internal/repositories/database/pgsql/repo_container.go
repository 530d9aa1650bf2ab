package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	docNumberRepo := newPgxDocumentNumberRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo, docNumberRepo)
	invoiceRepo := newPgxInvoiceRepository(dbPool, accountRepo, docNumberRepo)
	reportingRepo := newPgxReportingRepository(dbPool)
	companyRepo := newPgxCompanyRepository(dbPool)
	partyRepo := newPgxPartyRepository(dbPool)
	financeRepo := newPgxFinanceRepository(dbPool)
	notificationRepo := newPgxNotificationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		JournalRepo:      journalRepo,
		InvoiceRepo:      invoiceRepo,
		ReportingRepo:    reportingRepo,
		CompanyRepo:      companyRepo,
		PartyRepo:        partyRepo,
		FinanceRepo:      financeRepo,
		NotificationRepo: notificationRepo,
		DocNumberRepo:    docNumberRepo,
	}
}
