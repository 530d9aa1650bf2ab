package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a sales document that follows the same lifecycle as a journal
// entry. Approving an invoice produces exactly one bridging journal entry
// (receivable debit / revenue credit) in the same atomic unit.
type Invoice struct {
	InvoiceID     string      `json:"invoiceID"` // Primary Key (e.g., UUID)
	CompanyID     string      `json:"companyID"`
	InvoiceNumber string      `json:"invoiceNumber"` // INV-YEAR-NNNN, unique per company
	CustomerID    string      `json:"customerID"`
	InvoiceDate   time.Time   `json:"invoiceDate"`
	DueDate       time.Time   `json:"dueDate"`
	Status        EntryStatus `json:"status"`

	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	Total        decimal.Decimal `json:"total"` // Document currency
	TotalBase    decimal.Decimal `json:"totalBase"`

	// Posting accounts for the bridging entry.
	ReceivableAccountID string `json:"receivableAccountID"`
	RevenueAccountID    string `json:"revenueAccountID"`

	// JournalEntryID is set once, by the approve transition.
	JournalEntryID *string `json:"journalEntryID,omitempty"`

	VerifiedBy      *string `json:"verifiedBy,omitempty"`
	ApprovedBy      *string `json:"approvedBy,omitempty"`
	RejectedBy      *string `json:"rejectedBy,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`

	Lines []InvoiceLine `json:"lines,omitempty"`
	AuditFields
}

// InvoiceLine is a billed item on an invoice.
type InvoiceLine struct {
	LineID      string          `json:"lineID"`
	InvoiceID   string          `json:"invoiceID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"` // Document currency
	Amount      decimal.Decimal `json:"amount"`    // Quantity * UnitPrice, document currency
}

// Overdue reports whether an approved invoice's due date has passed as of now.
func (i Invoice) Overdue(now time.Time) bool {
	return i.Status == StatusApproved && i.DueDate.Before(now)
}
