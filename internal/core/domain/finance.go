package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObligationStatus is the lifecycle of a tracked financial obligation.
type ObligationStatus string

const (
	ObligationOpen   ObligationStatus = "OPEN"
	ObligationClosed ObligationStatus = "CLOSED"
)

// LetterOfCredit is a bank-issued payment guarantee tracked as a financial
// obligation. It sits outside the ledger core but feeds liability accounts
// and the notification deriver.
type LetterOfCredit struct {
	LCID         string           `json:"lcID"` // Primary Key (e.g., UUID)
	CompanyID    string           `json:"companyID"`
	VendorID     string           `json:"vendorID"`
	Number       string           `json:"number"`
	BankName     string           `json:"bankName"`
	CurrencyCode string           `json:"currencyCode"`
	ExchangeRate decimal.Decimal  `json:"exchangeRate"`
	Amount       decimal.Decimal  `json:"amount"`
	AmountBase   decimal.Decimal  `json:"amountBase"`
	IssueDate    time.Time        `json:"issueDate"`
	ExpiryDate   time.Time        `json:"expiryDate"`
	Status       ObligationStatus `json:"status"`
	AuditFields
}

// ExpiringWithin reports whether an open LC expires inside the given window.
func (lc LetterOfCredit) ExpiringWithin(now time.Time, window time.Duration) bool {
	return lc.Status == ObligationOpen && lc.ExpiryDate.After(now) && lc.ExpiryDate.Before(now.Add(window))
}

// Loan is a borrowed obligation with a maturity date.
type Loan struct {
	LoanID       string           `json:"loanID"` // Primary Key (e.g., UUID)
	CompanyID    string           `json:"companyID"`
	LenderName   string           `json:"lenderName"`
	Principal    decimal.Decimal  `json:"principal"` // Base currency
	InterestRate decimal.Decimal  `json:"interestRate"`
	StartDate    time.Time        `json:"startDate"`
	MaturityDate time.Time        `json:"maturityDate"`
	Status       ObligationStatus `json:"status"`
	AuditFields
}

// MaturingWithin reports whether an open loan matures inside the given window.
func (l Loan) MaturingWithin(now time.Time, window time.Duration) bool {
	return l.Status == ObligationOpen && l.MaturityDate.After(now) && l.MaturityDate.Before(now.Add(window))
}
