package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry or invoice.
type EntryStatus string

const (
	StatusDraft               EntryStatus = "DRAFT"
	StatusPendingVerification EntryStatus = "PENDING_VERIFICATION"
	StatusVerified            EntryStatus = "VERIFIED"
	StatusPendingApproval     EntryStatus = "PENDING_APPROVAL"
	StatusApproved            EntryStatus = "APPROVED" // Terminal; entry and lines become immutable
	StatusRejected            EntryStatus = "REJECTED"
)

// Editable reports whether a document in this status may still be edited or deleted.
func (s EntryStatus) Editable() bool {
	return s == StatusDraft || s == StatusRejected
}

// EntryAction is a state machine transition requested by a caller.
type EntryAction string

const (
	ActionSubmit   EntryAction = "submit"
	ActionVerify   EntryAction = "verify"
	ActionReject   EntryAction = "reject"
	ActionRetrieve EntryAction = "retrieve"
	ActionApprove  EntryAction = "approve"
)

// JournalEntry represents a balanced set of debit/credit lines posted to the ledger.
//
// TotalDebit must equal TotalCredit within BalanceEpsilon at all times. Once
// Status is APPROVED the entry and its lines are read-only and are never
// physically deleted.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`     // Primary Key (e.g., UUID)
	CompanyID   string      `json:"companyID"`   // FK -> companies.company_id (NON-NULL)
	EntryNumber string      `json:"entryNumber"` // JRN-YEAR-NNNN, unique per company
	EntryDate   time.Time   `json:"entryDate"`
	Description string      `json:"description"`
	Status      EntryStatus `json:"status"`

	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // Fixed at creation, never recalculated

	TotalDebit      decimal.Decimal `json:"totalDebit"`  // Document currency
	TotalCredit     decimal.Decimal `json:"totalCredit"` // Document currency
	TotalDebitBase  decimal.Decimal `json:"totalDebitBase"`
	TotalCreditBase decimal.Decimal `json:"totalCreditBase"`

	VerifiedBy      *string `json:"verifiedBy,omitempty"`
	ApprovedBy      *string `json:"approvedBy,omitempty"`
	RejectedBy      *string `json:"rejectedBy,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`

	// SourceInvoiceID links the bridging entry produced by an invoice approval
	// back to its invoice.
	SourceInvoiceID *string `json:"sourceInvoiceID,omitempty"`

	Lines []JournalLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// JournalLine is a single movement against one account within a journal entry.
//
// Exactly one of Debit/Credit is non-zero per conventional posting. The base
// amounts are the only ones balance propagation and reporting ever read.
type JournalLine struct {
	LineID    string `json:"lineID"`  // Primary Key (e.g., UUID)
	EntryID   string `json:"entryID"` // FK -> journal_entries.entry_id (Not Null)
	AccountID string `json:"accountID"`

	Debit      decimal.Decimal `json:"debit"`  // Document currency
	Credit     decimal.Decimal `json:"credit"` // Document currency
	DebitBase  decimal.Decimal `json:"debitBase"`
	CreditBase decimal.Decimal `json:"creditBase"`

	ExchangeRate decimal.Decimal `json:"exchangeRate"`

	// Optional reporting dimensions.
	BranchID     *string `json:"branchID,omitempty"`
	ProjectID    *string `json:"projectID,omitempty"`
	CostCenterID *string `json:"costCenterID,omitempty"`
	CustomerID   *string `json:"customerID,omitempty"`
	VendorID     *string `json:"vendorID,omitempty"`

	DueDate    *time.Time `json:"dueDate,omitempty"` // Drives aging buckets
	Reconciled bool       `json:"reconciled"`
	AuditFields
}

// BalanceEpsilon is the tolerance within which an entry's debit and credit
// totals must agree.
var BalanceEpsilon = decimal.NewFromFloat(0.01)

// IsBalanced reports whether the entry's totals agree within BalanceEpsilon.
func (e JournalEntry) IsBalanced() bool {
	return e.TotalDebit.Sub(e.TotalCredit).Abs().LessThanOrEqual(BalanceEpsilon)
}
