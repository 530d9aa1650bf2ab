package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// ReportFilterQuery holds the query parameters common to report endpoints.
// Dates are parsed as YYYY-MM-DD.
type ReportFilterQuery struct {
	DateFrom     *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo       *time.Time `form:"dateTo" time_format:"2006-01-02"`
	BranchID     *string    `form:"branchID"`
	ProjectID    *string    `form:"projectID"`
	CostCenterID *string    `form:"costCenterID"`
	CustomerID   *string    `form:"customerID"`
	VendorID     *string    `form:"vendorID"`
}

// ToDomainFilter converts the query parameters to the domain report filter.
func (q ReportFilterQuery) ToDomainFilter() domain.ReportFilter {
	return domain.ReportFilter{
		DateFrom:     q.DateFrom,
		DateTo:       q.DateTo,
		BranchID:     q.BranchID,
		ProjectID:    q.ProjectID,
		CostCenterID: q.CostCenterID,
		CustomerID:   q.CustomerID,
		VendorID:     q.VendorID,
	}
}

// AgingQuery holds parameters for the receivables/payables aging report.
// Buckets are measured from the current date.
type AgingQuery struct {
	Side domain.AgingSide `form:"side" binding:"required,oneof=RECEIVABLE PAYABLE"`
}

// LedgerParams holds parameters for the general ledger listing.
type LedgerParams struct {
	AccountID *string `form:"accountID"`
	ReportFilterQuery
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// LedgerResponse is a page of ledger rows plus the cursor for the next page.
type LedgerResponse struct {
	Rows      []domain.LedgerRow `json:"rows"`
	NextToken *string            `json:"nextToken,omitempty"`
}
