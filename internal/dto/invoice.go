package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceLineRequest is one billed item on an invoice being created.
type InvoiceLineRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateInvoiceRequest is the payload for creating an invoice.
type CreateInvoiceRequest struct {
	CustomerID          string               `json:"customerID" binding:"required"`
	InvoiceDate         time.Time            `json:"invoiceDate" binding:"required"`
	DueDate             time.Time            `json:"dueDate" binding:"required"`
	CurrencyCode        string               `json:"currencyCode" binding:"required,iso4217"`
	ExchangeRate        *decimal.Decimal     `json:"exchangeRate,omitempty"` // Defaults to 1
	ReceivableAccountID string               `json:"receivableAccountID" binding:"required"`
	RevenueAccountID    string               `json:"revenueAccountID" binding:"required"`
	Lines               []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest replaces header and lines of an editable invoice.
type UpdateInvoiceRequest struct {
	CustomerID  *string              `json:"customerID,omitempty"`
	InvoiceDate *time.Time           `json:"invoiceDate,omitempty"`
	DueDate     *time.Time           `json:"dueDate,omitempty"`
	Lines       []InvoiceLineRequest `json:"lines,omitempty" binding:"omitempty,min=1,dive"`
}

// ListInvoicesParams holds listing parameters for invoices.
type ListInvoicesParams struct {
	Status    *domain.EntryStatus `form:"status" binding:"omitempty,oneof=DRAFT PENDING_VERIFICATION VERIFIED PENDING_APPROVAL APPROVED REJECTED"`
	Limit     int                 `form:"limit"`
	NextToken *string             `form:"nextToken"`
}

// InvoiceLineResponse is the API shape of an invoice line.
type InvoiceLineResponse struct {
	LineID      string          `json:"lineID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse is the API shape of an invoice.
type InvoiceResponse struct {
	InvoiceID       string                `json:"invoiceID"`
	InvoiceNumber   string                `json:"invoiceNumber"`
	CustomerID      string                `json:"customerID"`
	InvoiceDate     time.Time             `json:"invoiceDate"`
	DueDate         time.Time             `json:"dueDate"`
	Status          domain.EntryStatus    `json:"status"`
	CurrencyCode    string                `json:"currencyCode"`
	ExchangeRate    decimal.Decimal       `json:"exchangeRate"`
	Total           decimal.Decimal       `json:"total"`
	TotalBase       decimal.Decimal       `json:"totalBase"`
	JournalEntryID  *string               `json:"journalEntryID,omitempty"`
	RejectionReason *string               `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	CreatedBy       string                `json:"createdBy"`
	Lines           []InvoiceLineResponse `json:"lines,omitempty"`
}

// ListInvoicesResponse is a page of invoices plus the cursor for the next page.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToInvoiceResponse converts a domain invoice (with any loaded lines) to its API shape.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:       inv.InvoiceID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		Status:          inv.Status,
		CurrencyCode:    inv.CurrencyCode,
		ExchangeRate:    inv.ExchangeRate,
		Total:           inv.Total,
		TotalBase:       inv.TotalBase,
		JournalEntryID:  inv.JournalEntryID,
		RejectionReason: inv.RejectionReason,
		CreatedAt:       inv.CreatedAt,
		CreatedBy:       inv.CreatedBy,
	}
	if len(inv.Lines) > 0 {
		resp.Lines = make([]InvoiceLineResponse, len(inv.Lines))
		for i, l := range inv.Lines {
			resp.Lines[i] = InvoiceLineResponse{
				LineID:      l.LineID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				Amount:      l.Amount,
			}
		}
	}
	return resp
}
