package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the expected JSON body for creating an account.
type CreateAccountRequest struct {
	Code           string                 `json:"code" binding:"required"`
	Name           string                 `json:"name" binding:"required"`
	AccountType    domain.AccountType     `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Category       domain.AccountCategory `json:"category" binding:"omitempty,oneof=CASH BANK AR AP INVENTORY"`
	CashFlowType   domain.CashFlowType    `json:"cashFlowType" binding:"omitempty,oneof=OPERATING INVESTING FINANCING"`
	OpeningBalance *decimal.Decimal       `json:"openingBalance,omitempty"`
	AllowNegative  bool                   `json:"allowNegative"`
}

// AccountResponse is the API shape of an account.
type AccountResponse struct {
	AccountID      string                 `json:"accountID"`
	Code           string                 `json:"code"`
	Name           string                 `json:"name"`
	AccountType    domain.AccountType     `json:"accountType"`
	Category       domain.AccountCategory `json:"category"`
	CashFlowType   domain.CashFlowType    `json:"cashFlowType"`
	OpeningBalance decimal.Decimal        `json:"openingBalance"`
	CurrentBalance decimal.Decimal        `json:"currentBalance"`
	AllowNegative  bool                   `json:"allowNegative"`
	IsActive       bool                   `json:"isActive"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// ToAccountResponse converts a domain account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		Code:           a.Code,
		Name:           a.Name,
		AccountType:    a.AccountType,
		Category:       a.Category,
		CashFlowType:   a.CashFlowType,
		OpeningBalance: a.OpeningBalance,
		CurrentBalance: a.CurrentBalance,
		AllowNegative:  a.AllowNegative,
		IsActive:       a.IsActive,
		CreatedAt:      a.CreatedAt,
	}
}
