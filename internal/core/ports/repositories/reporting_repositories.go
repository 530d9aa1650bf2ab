package repositories

import (
	"context"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// ReportingRepository reads approved journal lines plus account metadata to
// build report rows. It never reads a denormalized cache; every result is
// derivable from the approved line set alone.
type ReportingRepository interface {
	// GetTrialBalanceData sums approved debit/credit base amounts per account
	// under the filter.
	GetTrialBalanceData(ctx context.Context, companyID string, filter domain.ReportFilter) ([]domain.TrialBalanceRow, error)

	// GetProfitAndLossData returns income and expense net amounts under the
	// filter, absolute per the account's normal side.
	GetProfitAndLossData(ctx context.Context, companyID string, filter domain.ReportFilter) (income, expenses []domain.AccountAmount, err error)

	// GetBalanceSheetData returns asset/liability/equity net amounts
	// cumulatively up to filter.DateTo, including opening balances. The
	// synthetic retained-earnings line is the service's concern.
	GetBalanceSheetData(ctx context.Context, companyID string, filter domain.ReportFilter) (assets, liabilities, equity []domain.AccountAmount, err error)

	// GetAgingData buckets open counterparty balances by due-date distance
	// from asOf.
	GetAgingData(ctx context.Context, companyID string, side domain.AgingSide, asOf time.Time) ([]domain.AgingRow, error)

	// ListLedgerRows retrieves a token-paginated chronological line listing
	// for one account (or all accounts when accountID is nil).
	ListLedgerRows(ctx context.Context, companyID string, accountID *string, filter domain.ReportFilter, limit int, nextToken *string) ([]domain.LedgerRow, *string, error)
}
