package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// InvoiceSvcFacade is the invoice surface exposed to the API layer. Invoices
// share the journal-entry state machine; approving one additionally creates
// the bridging journal entry in the same atomic unit.
type InvoiceSvcFacade interface {
	CreateInvoice(ctx context.Context, companyID string, req dto.CreateInvoiceRequest, actor domain.Identity) (*domain.Invoice, error)

	Transition(ctx context.Context, companyID, invoiceID string, req dto.TransitionRequest, actor domain.Identity) (*domain.Invoice, error)

	GetInvoiceByID(ctx context.Context, companyID, invoiceID string, actor domain.Identity) (*domain.Invoice, error)

	ListInvoices(ctx context.Context, companyID string, actor domain.Identity, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	UpdateInvoice(ctx context.Context, companyID, invoiceID string, req dto.UpdateInvoiceRequest, actor domain.Identity) (*domain.Invoice, error)

	DeleteInvoice(ctx context.Context, companyID, invoiceID string, actor domain.Identity) error
}
