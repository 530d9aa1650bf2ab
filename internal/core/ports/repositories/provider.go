package repositories

// RepositoryProvider bundles every repository implementation handed to the
// service layer.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	JournalRepo      JournalRepositoryFacade
	InvoiceRepo      InvoiceRepositoryFacade
	ReportingRepo    ReportingRepository
	CompanyRepo      CompanyRepository
	PartyRepo        PartyRepository
	FinanceRepo      FinanceRepository
	NotificationRepo NotificationRepository
	DocNumberRepo    DocumentNumberRepository
}
