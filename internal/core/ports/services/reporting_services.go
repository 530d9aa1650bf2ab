package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// ReportingSvcFacade derives financial statements from approved journal
// lines under caller-supplied dimensional filters. All methods are read-only
// and safe to run concurrently with any other operation.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, companyID string, filter domain.ReportFilter, actor domain.Identity) ([]domain.TrialBalanceRow, error)

	ProfitAndLoss(ctx context.Context, companyID string, filter domain.ReportFilter, actor domain.Identity) (*domain.PAndLReport, error)

	// BalanceSheet is cumulative: only filter.DateTo matters. The returned
	// equity section includes the synthetic Retained Earnings line.
	BalanceSheet(ctx context.Context, companyID string, filter domain.ReportFilter, actor domain.Identity) (*domain.BalanceSheetReport, error)

	Aging(ctx context.Context, companyID string, side domain.AgingSide, actor domain.Identity) ([]domain.AgingRow, error)

	// Ledger lists approved lines chronologically for one account, or all
	// accounts when accountID is nil.
	Ledger(ctx context.Context, companyID string, accountID *string, filter domain.ReportFilter, actor domain.Identity, limit int, nextToken *string) ([]domain.LedgerRow, *string, error)
}
