package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLineRequest is one line of a journal entry being created.
// Amounts are in the entry's document currency; exactly one of debit/credit
// must be positive.
type CreateEntryLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`

	BranchID     *string    `json:"branchID,omitempty"`
	ProjectID    *string    `json:"projectID,omitempty"`
	CostCenterID *string    `json:"costCenterID,omitempty"`
	CustomerID   *string    `json:"customerID,omitempty"`
	VendorID     *string    `json:"vendorID,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
}

// CreateEntryRequest is the payload for creating a journal entry.
type CreateEntryRequest struct {
	Date         time.Time                `json:"date" binding:"required"`
	Description  string                   `json:"description" binding:"required"`
	CurrencyCode string                   `json:"currencyCode" binding:"required,iso4217"`
	ExchangeRate *decimal.Decimal         `json:"exchangeRate,omitempty"` // Defaults to 1
	Lines        []CreateEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateEntryRequest replaces header and lines of an editable entry. Nil
// header fields are left unchanged; nil Lines keeps the existing lines.
type UpdateEntryRequest struct {
	Date        *time.Time               `json:"date,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Lines       []CreateEntryLineRequest `json:"lines,omitempty" binding:"omitempty,min=2,dive"`
}

// TransitionRequest asks for one state machine transition.
type TransitionRequest struct {
	Action domain.EntryAction `json:"action" binding:"required,oneof=submit verify reject retrieve approve"`
	Reason *string            `json:"reason,omitempty"` // Required for reject

	// OverrideOverdraft lets an owner or admin approve past the cash/bank
	// overdraft guard. Ignored for other roles and other actions.
	OverrideOverdraft bool `json:"overrideOverdraft,omitempty"`
}

// ListEntriesParams holds listing parameters for journal entries.
type ListEntriesParams struct {
	Status    *domain.EntryStatus `form:"status" binding:"omitempty,oneof=DRAFT PENDING_VERIFICATION VERIFIED PENDING_APPROVAL APPROVED REJECTED"`
	Limit     int                 `form:"limit"`
	NextToken *string             `form:"nextToken"`
}

// EntryLineResponse is the API shape of a journal line.
type EntryLineResponse struct {
	LineID     string          `json:"lineID"`
	AccountID  string          `json:"accountID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	DebitBase  decimal.Decimal `json:"debitBase"`
	CreditBase decimal.Decimal `json:"creditBase"`

	BranchID     *string    `json:"branchID,omitempty"`
	ProjectID    *string    `json:"projectID,omitempty"`
	CostCenterID *string    `json:"costCenterID,omitempty"`
	CustomerID   *string    `json:"customerID,omitempty"`
	VendorID     *string    `json:"vendorID,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Reconciled   bool       `json:"reconciled"`
}

// EntryResponse is the API shape of a journal entry.
type EntryResponse struct {
	EntryID         string              `json:"entryID"`
	EntryNumber     string              `json:"entryNumber"`
	Date            time.Time           `json:"date"`
	Description     string              `json:"description"`
	Status          domain.EntryStatus  `json:"status"`
	CurrencyCode    string              `json:"currencyCode"`
	ExchangeRate    decimal.Decimal     `json:"exchangeRate"`
	TotalDebit      decimal.Decimal     `json:"totalDebit"`
	TotalCredit     decimal.Decimal     `json:"totalCredit"`
	TotalDebitBase  decimal.Decimal     `json:"totalDebitBase"`
	TotalCreditBase decimal.Decimal     `json:"totalCreditBase"`
	RejectionReason *string             `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	CreatedBy       string              `json:"createdBy"`
	Lines           []EntryLineResponse `json:"lines,omitempty"`
}

// ListEntriesResponse is a page of entries plus the cursor for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain line to its API shape.
func ToEntryLineResponse(l *domain.JournalLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:       l.LineID,
		AccountID:    l.AccountID,
		Debit:        l.Debit,
		Credit:       l.Credit,
		DebitBase:    l.DebitBase,
		CreditBase:   l.CreditBase,
		BranchID:     l.BranchID,
		ProjectID:    l.ProjectID,
		CostCenterID: l.CostCenterID,
		CustomerID:   l.CustomerID,
		VendorID:     l.VendorID,
		DueDate:      l.DueDate,
		Reconciled:   l.Reconciled,
	}
}

// ToEntryResponse converts a domain entry (with any loaded lines) to its API shape.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:         e.EntryID,
		EntryNumber:     e.EntryNumber,
		Date:            e.EntryDate,
		Description:     e.Description,
		Status:          e.Status,
		CurrencyCode:    e.CurrencyCode,
		ExchangeRate:    e.ExchangeRate,
		TotalDebit:      e.TotalDebit,
		TotalCredit:     e.TotalCredit,
		TotalDebitBase:  e.TotalDebitBase,
		TotalCreditBase: e.TotalCreditBase,
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}
