package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLCRequest is the payload for recording a letter of credit.
type CreateLCRequest struct {
	VendorID     string           `json:"vendorID" binding:"required"`
	Number       string           `json:"number" binding:"required"`
	BankName     string           `json:"bankName" binding:"required"`
	Amount       decimal.Decimal  `json:"amount" binding:"required"`
	CurrencyCode string           `json:"currencyCode" binding:"required,iso4217"`
	ExchangeRate *decimal.Decimal `json:"exchangeRate,omitempty"` // Defaults to 1
	IssueDate    time.Time        `json:"issueDate" binding:"required"`
	ExpiryDate   time.Time        `json:"expiryDate" binding:"required"`
}

// CreateLoanRequest is the payload for recording a loan.
type CreateLoanRequest struct {
	LenderName   string          `json:"lenderName" binding:"required"`
	Principal    decimal.Decimal `json:"principal" binding:"required"`
	InterestRate decimal.Decimal `json:"interestRate"`
	StartDate    time.Time       `json:"startDate" binding:"required"`
	MaturityDate time.Time       `json:"maturityDate" binding:"required"`
}

// LCResponse is the API shape of a letter of credit.
type LCResponse struct {
	LCID         string                  `json:"lcID"`
	VendorID     string                  `json:"vendorID"`
	Number       string                  `json:"number"`
	BankName     string                  `json:"bankName"`
	Amount       decimal.Decimal         `json:"amount"`
	AmountBase   decimal.Decimal         `json:"amountBase"`
	CurrencyCode string                  `json:"currencyCode"`
	ExchangeRate decimal.Decimal         `json:"exchangeRate"`
	IssueDate    time.Time               `json:"issueDate"`
	ExpiryDate   time.Time               `json:"expiryDate"`
	Status       domain.ObligationStatus `json:"status"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// LoanResponse is the API shape of a loan.
type LoanResponse struct {
	LoanID       string                  `json:"loanID"`
	LenderName   string                  `json:"lenderName"`
	Principal    decimal.Decimal         `json:"principal"`
	InterestRate decimal.Decimal         `json:"interestRate"`
	StartDate    time.Time               `json:"startDate"`
	MaturityDate time.Time               `json:"maturityDate"`
	Status       domain.ObligationStatus `json:"status"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// ToLCResponse converts a domain letter of credit to its API shape.
func ToLCResponse(lc *domain.LetterOfCredit) LCResponse {
	return LCResponse{
		LCID:         lc.LCID,
		VendorID:     lc.VendorID,
		Number:       lc.Number,
		BankName:     lc.BankName,
		Amount:       lc.Amount,
		AmountBase:   lc.AmountBase,
		CurrencyCode: lc.CurrencyCode,
		ExchangeRate: lc.ExchangeRate,
		IssueDate:    lc.IssueDate,
		ExpiryDate:   lc.ExpiryDate,
		Status:       lc.Status,
		CreatedAt:    lc.CreatedAt,
	}
}

// ToLoanResponse converts a domain loan to its API shape.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:       l.LoanID,
		LenderName:   l.LenderName,
		Principal:    l.Principal,
		InterestRate: l.InterestRate,
		StartDate:    l.StartDate,
		MaturityDate: l.MaturityDate,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt,
	}
}
