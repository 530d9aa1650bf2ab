package repositories

import (
	"context"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceReader defines read operations for invoices.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice header by its unique identifier.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceLines retrieves all lines of one invoice.
	FindInvoiceLines(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error)

	// ListInvoicesByCompany retrieves a token-paginated invoice listing,
	// newest first, optionally restricted to one status.
	ListInvoicesByCompany(ctx context.Context, companyID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error)

	// FindOverdueInvoices retrieves approved invoices whose due date lies
	// before the given instant.
	FindOverdueInvoices(ctx context.Context, companyID string, asOf time.Time) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoices.
type InvoiceWriter interface {
	// CreateInvoice inserts an invoice and its lines in one transaction,
	// drawing the invoice number from the company's invoice sequence inside
	// that same transaction.
	CreateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine) (*domain.Invoice, error)

	// UpdateInvoice replaces the header fields and lines of an editable invoice.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine) error

	// UpdateInvoiceStatus records a non-approve transition, mirroring
	// EntryWriter.UpdateEntryStatus including its compare-and-swap on the
	// from status.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, from, to domain.EntryStatus, action domain.EntryAction, actorID string, reason *string, now time.Time) error

	// DeleteInvoice removes an editable invoice and its lines.
	DeleteInvoice(ctx context.Context, invoiceID string) error

	// ApproveInvoice atomically flips the invoice to APPROVED, inserts the
	// bridging journal entry (already numbered and APPROVED) with its lines,
	// links it to the invoice, and applies the balance deltas with the same
	// locking, overdraft, and status-assertion rules as
	// EntryWriter.ApproveEntry.
	ApproveInvoice(ctx context.Context, invoice domain.Invoice, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, overrideOverdraft bool, actorID string, now time.Time) (*domain.JournalEntry, error)
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
