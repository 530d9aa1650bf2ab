package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
)

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceLines(ctx context.Context, invoiceID string) ([]domain.InvoiceLine, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceLine), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesByCompany(ctx context.Context, companyID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, companyID, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.Invoice), token, args.Error(2)
}

func (m *MockInvoiceRepository) FindOverdueInvoices(ctx context.Context, companyID string, asOf time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine) (*domain.Invoice, error) {
	args := m.Called(ctx, invoice, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if stamp, ok := args.Get(0).(func(domain.Invoice) *domain.Invoice); ok {
		return stamp(invoice), args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine) error {
	args := m.Called(ctx, invoice, lines)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, from, to domain.EntryStatus, action domain.EntryAction, actorID string, reason *string, now time.Time) error {
	args := m.Called(ctx, invoiceID, from, to, action, actorID, reason, now)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ApproveInvoice(ctx context.Context, invoice domain.Invoice, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, overrideOverdraft bool, actorID string, now time.Time) (*domain.JournalEntry, error) {
	args := m.Called(ctx, invoice, entry, lines, balanceChanges, overrideOverdraft, actorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock PartyRepository ---

type MockPartyRepository struct {
	mock.Mock
}

var _ portsrepo.PartyRepository = (*MockPartyRepository)(nil)

func (m *MockPartyRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockPartyRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockPartyRepository) ListCustomers(ctx context.Context, companyID string, limit, offset int) ([]domain.Customer, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockPartyRepository) SaveVendor(ctx context.Context, vendor domain.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockPartyRepository) FindVendorByID(ctx context.Context, vendorID string) (*domain.Vendor, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vendor), args.Error(1)
}

func (m *MockPartyRepository) ListVendors(ctx context.Context, companyID string, limit, offset int) ([]domain.Vendor, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vendor), args.Error(1)
}

// --- Test Suite Setup ---

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockAccountRepo *MockAccountRepository
	mockPartyRepo   *MockPartyRepository
	mockNotifier    *MockNotifier
	service         portssvc.InvoiceSvcFacade
	companyID       string
	customer        domain.Customer
	receivable      domain.Account
	revenue         domain.Account
	accountant      domain.Identity
	owner           domain.Identity
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockAccountRepo, suite.mockPartyRepo, suite.mockNotifier)

	suite.companyID = uuid.NewString()
	suite.customer = domain.Customer{
		CustomerID: uuid.NewString(),
		CompanyID:  suite.companyID,
		Name:       "Acme Industrial",
		IsActive:   true,
	}
	suite.receivable = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1200",
		AccountType: domain.Asset,
		Category:    domain.CategoryAR,
		IsActive:    true,
	}
	suite.revenue = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "4000",
		AccountType: domain.Income,
		IsActive:    true,
	}

	suite.accountant = domain.Identity{UserID: uuid.NewString(), Roles: []domain.CompanyRole{domain.RoleAccountant}}
	suite.owner = domain.Identity{UserID: uuid.NewString(), Roles: []domain.CompanyRole{domain.RoleOwner}}
}

func (suite *InvoiceServiceTestSuite) postingAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.receivable.AccountID: suite.receivable,
		suite.revenue.AccountID:    suite.revenue,
	}
}

func (suite *InvoiceServiceTestSuite) invoiceRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID:          suite.customer.CustomerID,
		InvoiceDate:         time.Now().Add(-time.Hour),
		DueDate:             time.Now().Add(30 * 24 * time.Hour),
		CurrencyCode:        "USD",
		ReceivableAccountID: suite.receivable.AccountID,
		RevenueAccountID:    suite.revenue.AccountID,
		Lines: []dto.InvoiceLineRequest{
			{Description: "Widgets", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(250)},
			{Description: "Freight", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500)},
		},
	}
}

// --- Test Cases ---

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_TotalsFromLines() {
	ctx := context.Background()
	req := suite.invoiceRequest()

	suite.mockPartyRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.postingAccounts(), nil).Once()
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine")).
		Return(func(invoice domain.Invoice) *domain.Invoice {
			invoice.InvoiceNumber = "INV-2026-0001"
			return &invoice
		}, nil).Once()
	suite.mockNotifier.On("Notify", ctx, suite.companyID, domain.NotifyEntrySubmitted, domain.SeverityInfo,
		mock.Anything, mock.Anything, "invoice", mock.Anything).Once()

	created, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.accountant)

	suite.Require().NoError(err)
	suite.Equal("INV-2026-0001", created.InvoiceNumber)
	suite.Equal(domain.StatusPendingVerification, created.Status)
	suite.True(created.Total.Equal(decimal.NewFromInt(3000)))
	suite.True(created.TotalBase.Equal(decimal.NewFromInt(3000)))
	suite.Len(created.Lines, 2)
	suite.True(created.Lines[0].Amount.Equal(decimal.NewFromInt(2500)))
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_UnknownCustomer() {
	ctx := context.Background()
	req := suite.invoiceRequest()

	suite.mockPartyRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RevenueMustBeIncome() {
	ctx := context.Background()
	req := suite.invoiceRequest()

	accounts := suite.postingAccounts()
	wrong := accounts[suite.revenue.AccountID]
	wrong.AccountType = domain.Liability
	accounts[suite.revenue.AccountID] = wrong

	suite.mockPartyRepo.On("FindCustomerByID", ctx, suite.customer.CustomerID).Return(&suite.customer, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "income account")
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_DueBeforeInvoiceDate() {
	ctx := context.Background()
	req := suite.invoiceRequest()
	req.DueDate = req.InvoiceDate.Add(-24 * time.Hour)

	_, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InvoiceServiceTestSuite) verifiedInvoice() *domain.Invoice {
	return &domain.Invoice{
		InvoiceID:           uuid.NewString(),
		CompanyID:           suite.companyID,
		InvoiceNumber:       "INV-2026-0042",
		CustomerID:          suite.customer.CustomerID,
		InvoiceDate:         time.Now().Add(-48 * time.Hour),
		DueDate:             time.Now().Add(28 * 24 * time.Hour),
		Status:              domain.StatusVerified,
		CurrencyCode:        "USD",
		ExchangeRate:        decimal.NewFromInt(1),
		Total:               decimal.NewFromInt(3000),
		TotalBase:           decimal.NewFromInt(3000),
		ReceivableAccountID: suite.receivable.AccountID,
		RevenueAccountID:    suite.revenue.AccountID,
	}
}

func (suite *InvoiceServiceTestSuite) TestTransition_ApproveBuildsBridgingEntry() {
	ctx := context.Background()
	invoice := suite.verifiedInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Twice()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.postingAccounts(), nil).Once()

	suite.mockInvoiceRepo.On("ApproveInvoice", ctx, mock.AnythingOfType("domain.Invoice"),
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			return entry.Status == domain.StatusApproved &&
				entry.SourceInvoiceID != nil && *entry.SourceInvoiceID == invoice.InvoiceID &&
				entry.TotalDebit.Equal(invoice.Total) && entry.IsBalanced()
		}),
		mock.MatchedBy(func(lines []domain.JournalLine) bool {
			if len(lines) != 2 {
				return false
			}
			debit, credit := lines[0], lines[1]
			return debit.AccountID == suite.receivable.AccountID &&
				debit.Debit.Equal(invoice.Total) &&
				debit.DueDate != nil &&
				credit.AccountID == suite.revenue.AccountID &&
				credit.Credit.Equal(invoice.Total)
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			// Receivable (asset) and revenue (income) both grow by the total.
			return changes[suite.receivable.AccountID].Equal(invoice.TotalBase) &&
				changes[suite.revenue.AccountID].Equal(invoice.TotalBase)
		}),
		false, suite.owner.UserID, mock.AnythingOfType("time.Time")).
		Return(&domain.JournalEntry{EntryNumber: "JRN-2026-0099"}, nil).Once()

	suite.mockInvoiceRepo.On("FindInvoiceLines", ctx, invoice.InvoiceID).Return([]domain.InvoiceLine{}, nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, invoice.InvoiceID,
		dto.TransitionRequest{Action: domain.ActionApprove}, suite.owner)

	suite.Require().NoError(err)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestTransition_ApproveByAccountantForbidden() {
	ctx := context.Background()
	invoice := suite.verifiedInvoice()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, invoice.InvoiceID,
		dto.TransitionRequest{Action: domain.ActionApprove}, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "ApproveInvoice",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestTransition_ApproveApprovedForbidden() {
	ctx := context.Background()
	invoice := suite.verifiedInvoice()
	invoice.Status = domain.StatusApproved

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, invoice.InvoiceID,
		dto.TransitionRequest{Action: domain.ActionApprove}, suite.owner)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *InvoiceServiceTestSuite) TestTransition_RejectLosesRaceReturnsConflict() {
	ctx := context.Background()
	invoice := suite.verifiedInvoice()
	reason := "billed to the wrong customer"

	// The invoice was approved by a concurrent request after this one read it
	// as VERIFIED. The guarded status write updates zero rows and the reject
	// surfaces as a conflict instead of flipping an approved invoice.
	conflict := fmt.Errorf("%w: invoice %s is no longer %s", apperrors.ErrConflict, invoice.InvoiceID, domain.StatusVerified)
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoice.InvoiceID, domain.StatusVerified, domain.StatusRejected, domain.ActionReject, suite.owner.UserID, &reason, mock.AnythingOfType("time.Time")).Return(conflict).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, invoice.InvoiceID,
		dto.TransitionRequest{Action: domain.ActionReject, Reason: &reason}, suite.owner)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoice_ApprovedIsImmutable() {
	ctx := context.Background()
	invoice := suite.verifiedInvoice()
	invoice.Status = domain.StatusApproved

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	_, err := suite.service.UpdateInvoice(ctx, suite.companyID, invoice.InvoiceID, dto.UpdateInvoiceRequest{}, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestDeleteInvoice_CrossCompanyHidden() {
	ctx := context.Background()
	invoice := suite.verifiedInvoice()
	invoice.CompanyID = uuid.NewString()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoice.InvoiceID).Return(invoice, nil).Once()

	err := suite.service.DeleteInvoice(ctx, suite.companyID, invoice.InvoiceID, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
