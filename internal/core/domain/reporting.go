package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter is the shared dimensional filter of the report family.
// All fields are optional; a nil field means "no restriction".
type ReportFilter struct {
	DateFrom     *time.Time `json:"dateFrom,omitempty"`
	DateTo       *time.Time `json:"dateTo,omitempty"`
	BranchID     *string    `json:"branchID,omitempty"`
	ProjectID    *string    `json:"projectID,omitempty"`
	CostCenterID *string    `json:"costCenterID,omitempty"`
	CustomerID   *string    `json:"customerID,omitempty"`
	VendorID     *string    `json:"vendorID,omitempty"`
}

// TrialBalanceRow is one account's totals over approved lines.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"` // Debit - Credit
}

// AccountAmount is an account with its net amount in a financial statement.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// PAndLReport is a profit and loss statement over a filter window.
type PAndLReport struct {
	Income       []AccountAmount `json:"income"`
	Expenses     []AccountAmount `json:"expenses"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetProfit    decimal.Decimal `json:"netProfit"`
}

// BalanceSheetReport is a cumulative balance sheet as of a date. Equity
// includes the synthetic Retained Earnings line that makes
// Assets = Liabilities + Equity hold.
type BalanceSheetReport struct {
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
}

// RetainedEarningsAccountID marks the synthetic equity line appended to the
// balance sheet; it does not reference a stored account.
const RetainedEarningsAccountID = "retained-earnings"

// AgingRow buckets one counterparty's open balance by due-date distance from now.
type AgingRow struct {
	PartyID    string          `json:"partyID"`
	PartyName  string          `json:"partyName"`
	Current    decimal.Decimal `json:"current"`
	Days30     decimal.Decimal `json:"days30"`
	Days60     decimal.Decimal `json:"days60"`
	Days90     decimal.Decimal `json:"days90"`
	Days90Plus decimal.Decimal `json:"days90Plus"`
	Total      decimal.Decimal `json:"total"`
}

// AgingSide selects receivable (customer) or payable (vendor) aging.
type AgingSide string

const (
	AgingReceivable AgingSide = "RECEIVABLE"
	AgingPayable    AgingSide = "PAYABLE"
)

// LedgerRow is one approved journal line with its entry header and
// dimensions, as shown in the account ledger view.
type LedgerRow struct {
	EntryID     string          `json:"entryID"`
	EntryNumber string          `json:"entryNumber"`
	EntryDate   time.Time       `json:"entryDate"`
	Description string          `json:"description"`
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	DebitBase   decimal.Decimal `json:"debitBase"`
	CreditBase  decimal.Decimal `json:"creditBase"`

	BranchID     *string `json:"branchID,omitempty"`
	ProjectID    *string `json:"projectID,omitempty"`
	CostCenterID *string `json:"costCenterID,omitempty"`
	CustomerID   *string `json:"customerID,omitempty"`
	VendorID     *string `json:"vendorID,omitempty"`
}
