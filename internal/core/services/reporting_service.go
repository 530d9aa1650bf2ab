package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
)

// reportingService derives financial statements from approved journal lines.
// Every report is computed on demand from the line set; nothing is cached.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance lists per-account debit/credit totals over the filter window.
func (s *reportingService) TrialBalance(ctx context.Context, companyID string, filter domain.ReportFilter, actor domain.Identity) ([]domain.TrialBalanceRow, error) {
	return s.reportingRepo.GetTrialBalanceData(ctx, companyID, filter)
}

// ProfitAndLoss builds the income statement over the filter window.
func (s *reportingService) ProfitAndLoss(ctx context.Context, companyID string, filter domain.ReportFilter, actor domain.Identity) (*domain.PAndLReport, error) {
	income, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	report := &domain.PAndLReport{Income: income, Expenses: expenses}
	for _, row := range income {
		report.TotalIncome = report.TotalIncome.Add(row.NetAmount)
	}
	for _, row := range expenses {
		report.TotalExpense = report.TotalExpense.Add(row.NetAmount)
	}
	report.NetProfit = report.TotalIncome.Sub(report.TotalExpense)

	return report, nil
}

// BalanceSheet builds the cumulative balance sheet as of filter.DateTo. The
// equity section gains a synthetic Retained Earnings line carrying the
// cumulative net profit, which is what makes assets equal liabilities plus
// equity.
func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, filter domain.ReportFilter, actor domain.Identity) (*domain.BalanceSheetReport, error) {
	// The balance sheet is cumulative from inception.
	cumulative := domain.ReportFilter{
		DateTo:       filter.DateTo,
		BranchID:     filter.BranchID,
		ProjectID:    filter.ProjectID,
		CostCenterID: filter.CostCenterID,
	}

	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, companyID, cumulative)
	if err != nil {
		return nil, err
	}

	pnl, err := s.ProfitAndLoss(ctx, companyID, cumulative, actor)
	if err != nil {
		return nil, err
	}

	equity = append(equity, domain.AccountAmount{
		AccountID: domain.RetainedEarningsAccountID,
		Name:      "Retained Earnings",
		NetAmount: pnl.NetProfit,
	})

	report := &domain.BalanceSheetReport{Assets: assets, Liabilities: liabilities, Equity: equity}
	for _, row := range assets {
		report.TotalAssets = report.TotalAssets.Add(row.NetAmount)
	}
	for _, row := range liabilities {
		report.TotalLiabilities = report.TotalLiabilities.Add(row.NetAmount)
	}
	for _, row := range equity {
		report.TotalEquity = report.TotalEquity.Add(row.NetAmount)
	}

	return report, nil
}

// Aging buckets open counterparty balances by due-date distance from now.
func (s *reportingService) Aging(ctx context.Context, companyID string, side domain.AgingSide, actor domain.Identity) ([]domain.AgingRow, error) {
	rows, err := s.reportingRepo.GetAgingData(ctx, companyID, side, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	// Drop parties whose buckets net out to zero.
	filtered := rows[:0]
	for _, row := range rows {
		if !row.Total.Equal(decimal.Zero) {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

// Ledger lists approved lines chronologically for one account, or all
// accounts when accountID is nil.
func (s *reportingService) Ledger(ctx context.Context, companyID string, accountID *string, filter domain.ReportFilter, actor domain.Identity, limit int, nextToken *string) ([]domain.LedgerRow, *string, error) {
	return s.reportingRepo.ListLedgerRows(ctx, companyID, accountID, filter, limit, nextToken)
}
