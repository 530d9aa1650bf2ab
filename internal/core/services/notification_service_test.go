package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
)

// --- Mock NotificationRepository ---

type MockNotificationRepository struct {
	mock.Mock
}

var _ portsrepo.NotificationRepository = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) SaveIfAbsent(ctx context.Context, n domain.Notification) (bool, error) {
	args := m.Called(ctx, n)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) ListNotifications(ctx context.Context, companyID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	args := m.Called(ctx, companyID, unreadOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, companyID, notificationID string) error {
	args := m.Called(ctx, companyID, notificationID)
	return args.Error(0)
}

// --- Mock FinanceRepository ---

type MockFinanceRepository struct {
	mock.Mock
}

var _ portsrepo.FinanceRepository = (*MockFinanceRepository)(nil)

func (m *MockFinanceRepository) SaveLetterOfCredit(ctx context.Context, lc domain.LetterOfCredit) error {
	args := m.Called(ctx, lc)
	return args.Error(0)
}

func (m *MockFinanceRepository) FindLetterOfCreditByID(ctx context.Context, lcID string) (*domain.LetterOfCredit, error) {
	args := m.Called(ctx, lcID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LetterOfCredit), args.Error(1)
}

func (m *MockFinanceRepository) ListLettersOfCredit(ctx context.Context, companyID string, limit, offset int) ([]domain.LetterOfCredit, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LetterOfCredit), args.Error(1)
}

func (m *MockFinanceRepository) FindExpiringLCs(ctx context.Context, companyID string, asOf time.Time, window time.Duration) ([]domain.LetterOfCredit, error) {
	args := m.Called(ctx, companyID, asOf, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LetterOfCredit), args.Error(1)
}

func (m *MockFinanceRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockFinanceRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockFinanceRepository) ListLoans(ctx context.Context, companyID string, limit, offset int) ([]domain.Loan, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockFinanceRepository) FindMaturingLoans(ctx context.Context, companyID string, asOf time.Time, window time.Duration) ([]domain.Loan, error) {
	args := m.Called(ctx, companyID, asOf, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

// --- Test Suite Setup ---

type NotificationServiceTestSuite struct {
	suite.Suite
	mockNotifRepo   *MockNotificationRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockFinanceRepo *MockFinanceRepository
	service         portssvc.NotificationSvcFacade
	companyID       string
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.mockNotifRepo = new(MockNotificationRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockFinanceRepo = new(MockFinanceRepository)
	suite.service = services.NewNotificationService(suite.mockNotifRepo, suite.mockInvoiceRepo, suite.mockFinanceRepo)
	suite.companyID = uuid.NewString()
}

// --- Test Cases ---

func (suite *NotificationServiceTestSuite) TestDeriveNotifications_AllSources() {
	ctx := context.Background()

	overdueInvoice := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: "INV-2026-0004",
		Status:        domain.StatusApproved,
		DueDate:       time.Now().Add(-72 * time.Hour),
	}
	expiringLC := domain.LetterOfCredit{
		LCID:       uuid.NewString(),
		Number:     "LC-118",
		Status:     domain.ObligationOpen,
		ExpiryDate: time.Now().Add(10 * 24 * time.Hour),
	}
	maturingLoan := domain.Loan{
		LoanID:       uuid.NewString(),
		LenderName:   "First National",
		Status:       domain.ObligationOpen,
		MaturityDate: time.Now().Add(20 * 24 * time.Hour),
	}

	suite.mockInvoiceRepo.On("FindOverdueInvoices", ctx, suite.companyID, mock.AnythingOfType("time.Time")).
		Return([]domain.Invoice{overdueInvoice}, nil).Once()
	suite.mockFinanceRepo.On("FindExpiringLCs", ctx, suite.companyID, mock.AnythingOfType("time.Time"), 30*24*time.Hour).
		Return([]domain.LetterOfCredit{expiringLC}, nil).Once()
	suite.mockFinanceRepo.On("FindMaturingLoans", ctx, suite.companyID, mock.AnythingOfType("time.Time"), 30*24*time.Hour).
		Return([]domain.Loan{maturingLoan}, nil).Once()

	suite.mockNotifRepo.On("SaveIfAbsent", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyInvoiceOverdue && n.EntityID == overdueInvoice.InvoiceID && n.Severity == domain.SeverityWarning
	})).Return(true, nil).Once()
	suite.mockNotifRepo.On("SaveIfAbsent", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyLCExpiring && n.EntityID == expiringLC.LCID
	})).Return(true, nil).Once()
	suite.mockNotifRepo.On("SaveIfAbsent", ctx, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Type == domain.NotifyLoanMaturing && n.EntityID == maturingLoan.LoanID
	})).Return(true, nil).Once()

	created, err := suite.service.DeriveNotifications(ctx, suite.companyID)

	suite.Require().NoError(err)
	suite.Equal(3, created)
	suite.mockNotifRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestDeriveNotifications_SecondRunIsIdempotent() {
	ctx := context.Background()

	overdueInvoice := domain.Invoice{InvoiceID: uuid.NewString(), InvoiceNumber: "INV-2026-0004", DueDate: time.Now().Add(-time.Hour)}

	suite.mockInvoiceRepo.On("FindOverdueInvoices", ctx, suite.companyID, mock.Anything).
		Return([]domain.Invoice{overdueInvoice}, nil).Once()
	suite.mockFinanceRepo.On("FindExpiringLCs", ctx, suite.companyID, mock.Anything, mock.Anything).
		Return([]domain.LetterOfCredit{}, nil).Once()
	suite.mockFinanceRepo.On("FindMaturingLoans", ctx, suite.companyID, mock.Anything, mock.Anything).
		Return([]domain.Loan{}, nil).Once()

	// The unread notification already exists, so the insert is a no-op.
	suite.mockNotifRepo.On("SaveIfAbsent", ctx, mock.AnythingOfType("domain.Notification")).Return(false, nil).Once()

	created, err := suite.service.DeriveNotifications(ctx, suite.companyID)

	suite.Require().NoError(err)
	suite.Equal(0, created)
}

func (suite *NotificationServiceTestSuite) TestNotify_SwallowsSaveErrors() {
	ctx := context.Background()

	suite.mockNotifRepo.On("SaveIfAbsent", ctx, mock.AnythingOfType("domain.Notification")).
		Return(false, context.DeadlineExceeded).Once()

	// Must not panic or surface the error.
	suite.service.Notify(ctx, suite.companyID, domain.NotifyEntrySubmitted, domain.SeverityInfo,
		"Journal entry awaiting verification", "Entry JRN-2026-0001 was submitted", "journal_entry", uuid.NewString())

	suite.mockNotifRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestMarkRead_ScopedToCompany() {
	ctx := context.Background()
	notificationID := uuid.NewString()
	actor := domain.Identity{UserID: uuid.NewString(), Roles: []domain.CompanyRole{domain.RoleManager}}

	suite.mockNotifRepo.On("MarkRead", ctx, suite.companyID, notificationID).Return(nil).Once()

	err := suite.service.MarkRead(ctx, suite.companyID, notificationID, actor)

	suite.Require().NoError(err)
	suite.mockNotifRepo.AssertExpectations(suite.T())
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
