package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
)

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, companyID string, filter domain.ReportFilter) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetProfitAndLossData(ctx context.Context, companyID string, filter domain.ReportFilter) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Error(2)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, companyID string, filter domain.ReportFilter) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Get(2).([]domain.AccountAmount), args.Error(3)
}

func (m *MockReportingRepository) GetAgingData(ctx context.Context, companyID string, side domain.AgingSide, asOf time.Time) ([]domain.AgingRow, error) {
	args := m.Called(ctx, companyID, side, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AgingRow), args.Error(1)
}

func (m *MockReportingRepository) ListLedgerRows(ctx context.Context, companyID string, accountID *string, filter domain.ReportFilter, limit int, nextToken *string) ([]domain.LedgerRow, *string, error) {
	args := m.Called(ctx, companyID, accountID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.LedgerRow), token, args.Error(2)
}

// --- Test Suite Setup ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockReportingRepository
	service   portssvc.ReportingSvcFacade
	companyID string
	actor     domain.Identity
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockRepo)
	suite.companyID = uuid.NewString()
	suite.actor = domain.Identity{UserID: uuid.NewString(), Roles: []domain.CompanyRole{domain.RoleManager}}
}

func amount(id, name string, v int64) domain.AccountAmount {
	return domain.AccountAmount{AccountID: id, Name: name, NetAmount: decimal.NewFromInt(v)}
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_Totals() {
	ctx := context.Background()
	filter := domain.ReportFilter{}

	income := []domain.AccountAmount{amount("sales", "Sales", 50000), amount("interest", "Interest Income", 1200)}
	expenses := []domain.AccountAmount{amount("rent", "Rent", 8000), amount("wages", "Wages", 22000)}
	suite.mockRepo.On("GetProfitAndLossData", ctx, suite.companyID, filter).Return(income, expenses, nil).Once()

	report, err := suite.service.ProfitAndLoss(ctx, suite.companyID, filter, suite.actor)

	suite.Require().NoError(err)
	suite.True(report.TotalIncome.Equal(decimal.NewFromInt(51200)))
	suite.True(report.TotalExpense.Equal(decimal.NewFromInt(30000)))
	suite.True(report.NetProfit.Equal(decimal.NewFromInt(21200)))
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_RetainedEarningsBalancesTheEquation() {
	ctx := context.Background()
	asOf := time.Now()
	filter := domain.ReportFilter{DateTo: &asOf}

	// Assets 60,000 against liabilities 25,000 and stated equity 13,800:
	// the 21,200 cumulative net profit closes the gap.
	assets := []domain.AccountAmount{amount("cash", "Cash", 45000), amount("ar", "Accounts Receivable", 15000)}
	liabilities := []domain.AccountAmount{amount("ap", "Accounts Payable", 25000)}
	equity := []domain.AccountAmount{amount("capital", "Share Capital", 13800)}

	suite.mockRepo.On("GetBalanceSheetData", ctx, suite.companyID, mock.AnythingOfType("domain.ReportFilter")).
		Return(assets, liabilities, equity, nil).Once()
	suite.mockRepo.On("GetProfitAndLossData", ctx, suite.companyID, mock.AnythingOfType("domain.ReportFilter")).
		Return([]domain.AccountAmount{amount("sales", "Sales", 51200)}, []domain.AccountAmount{amount("rent", "Rent", 30000)}, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.companyID, filter, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(report.Equity, 2)

	retained := report.Equity[len(report.Equity)-1]
	suite.Equal(domain.RetainedEarningsAccountID, retained.AccountID)
	suite.Equal("Retained Earnings", retained.Name)
	suite.True(retained.NetAmount.Equal(decimal.NewFromInt(21200)))

	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(60000)))
	suite.True(report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity)))
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_DropsDateFrom() {
	ctx := context.Background()
	from := time.Now().Add(-30 * 24 * time.Hour)
	to := time.Now()
	filter := domain.ReportFilter{DateFrom: &from, DateTo: &to}

	suite.mockRepo.On("GetBalanceSheetData", ctx, suite.companyID, mock.MatchedBy(func(f domain.ReportFilter) bool {
		return f.DateFrom == nil && f.DateTo == &to
	})).Return([]domain.AccountAmount{}, []domain.AccountAmount{}, []domain.AccountAmount{}, nil).Once()
	suite.mockRepo.On("GetProfitAndLossData", ctx, suite.companyID, mock.MatchedBy(func(f domain.ReportFilter) bool {
		return f.DateFrom == nil
	})).Return([]domain.AccountAmount{}, []domain.AccountAmount{}, nil).Once()

	_, err := suite.service.BalanceSheet(ctx, suite.companyID, filter, suite.actor)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestAging_DropsZeroTotals() {
	ctx := context.Background()

	rows := []domain.AgingRow{
		{PartyID: "c1", PartyName: "Acme", Current: decimal.NewFromInt(500), Total: decimal.NewFromInt(500)},
		{PartyID: "c2", PartyName: "Globex", Total: decimal.Zero},
		{PartyID: "c3", PartyName: "Initech", Days90: decimal.NewFromInt(120), Days90Plus: decimal.NewFromInt(80), Total: decimal.NewFromInt(200)},
	}
	suite.mockRepo.On("GetAgingData", ctx, suite.companyID, domain.AgingReceivable, mock.AnythingOfType("time.Time")).
		Return(rows, nil).Once()

	result, err := suite.service.Aging(ctx, suite.companyID, domain.AgingReceivable, suite.actor)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal("c1", result[0].PartyID)
	suite.Equal("c3", result[1].PartyID)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_PassThrough() {
	ctx := context.Background()
	filter := domain.ReportFilter{}

	rows := []domain.TrialBalanceRow{
		{AccountID: "cash", AccountCode: "1000", Debit: decimal.NewFromInt(45000), Balance: decimal.NewFromInt(45000)},
		{AccountID: "sales", AccountCode: "4000", Credit: decimal.NewFromInt(45000), Balance: decimal.NewFromInt(-45000)},
	}
	suite.mockRepo.On("GetTrialBalanceData", ctx, suite.companyID, filter).Return(rows, nil).Once()

	result, err := suite.service.TrialBalance(ctx, suite.companyID, filter, suite.actor)

	suite.Require().NoError(err)
	suite.Len(result, 2)

	totalBalance := decimal.Zero
	for _, row := range result {
		totalBalance = totalBalance.Add(row.Balance)
	}
	suite.True(totalBalance.IsZero())
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
