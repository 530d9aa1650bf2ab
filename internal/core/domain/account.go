package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsDebitNormal reports whether debits increase the balance of accounts of
// this type. ASSET and EXPENSE are debit-normal; LIABILITY, EQUITY and
// INCOME are credit-normal.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// AccountCategory is an optional refinement of the account type. CASH and
// BANK categories are subject to overdraft protection.
type AccountCategory string

const (
	CategoryCash      AccountCategory = "CASH"
	CategoryBank      AccountCategory = "BANK"
	CategoryAR        AccountCategory = "AR"
	CategoryAP        AccountCategory = "AP"
	CategoryInventory AccountCategory = "INVENTORY"
)

// CashFlowType classifies an account for the cash flow statement.
type CashFlowType string

const (
	CashFlowOperating CashFlowType = "OPERATING"
	CashFlowInvesting CashFlowType = "INVESTING"
	CashFlowFinancing CashFlowType = "FINANCING"
)

// Account represents a ledger account within one company.
//
// CurrentBalance is maintained by the balance propagation step of the
// approve transition and must always equal OpeningBalance plus the signed
// sum of all APPROVED journal-line movements against this account. It is
// never recomputed on read outside of auditing.
type Account struct {
	AccountID      string          `json:"accountID"` // Primary Key (e.g., UUID)
	CompanyID      string          `json:"companyID"` // FK -> companies.company_id (NON-NULL)
	Code           string          `json:"code"`      // Unique per company
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	Category       AccountCategory `json:"category,omitempty"`     // Optional
	CashFlowType   CashFlowType    `json:"cashFlowType,omitempty"` // Optional
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	AllowNegative  bool            `json:"allowNegative"` // Exempts CASH/BANK accounts from overdraft protection
	IsActive       bool            `json:"isActive"`
	AuditFields
}

// OverdraftProtected reports whether approving an entry may not push this
// account's balance below zero without an Owner/Admin override.
func (a Account) OverdraftProtected() bool {
	return (a.Category == CategoryCash || a.Category == CategoryBank) && !a.AllowNegative
}
