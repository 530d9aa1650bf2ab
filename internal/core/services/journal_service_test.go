package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, companyID, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

// CreateEntry echoes the entry it was handed, the way the real repository
// returns the inserted row. A func return value lets tests stamp the number.
func (m *MockJournalRepository) CreateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if stamp, ok := args.Get(0).(func(domain.JournalEntry) *domain.JournalEntry); ok {
		return stamp(entry), args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) UpdateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, from, to domain.EntryStatus, action domain.EntryAction, actorID string, reason *string, now time.Time) error {
	args := m.Called(ctx, entryID, from, to, action, actorID, reason, now)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockJournalRepository) ApproveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, overrideOverdraft bool, actorID string, now time.Time) error {
	args := m.Called(ctx, entry, balanceChanges, overrideOverdraft, actorID, now)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) IncrementBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Notify(ctx context.Context, companyID string, nType domain.NotificationType, severity domain.NotificationSeverity, title, message, entityType, entityID string) {
	m.Called(ctx, companyID, nType, severity, title, message, entityType, entityID)
}

// --- Test Suite Setup ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockNotifier    *MockNotifier
	service         portssvc.JournalSvcFacade
	companyID       string
	cashAccount     domain.Account
	salesAccount    domain.Account
	accountant      domain.Identity
	manager         domain.Identity
	owner           domain.Identity
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockNotifier)

	suite.companyID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1000",
		AccountType: domain.Asset,
		Category:    domain.CategoryCash,
		IsActive:    true,
	}
	suite.salesAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "4000",
		AccountType: domain.Income,
		IsActive:    true,
	}

	suite.accountant = domain.Identity{UserID: uuid.NewString(), Roles: []domain.CompanyRole{domain.RoleAccountant}}
	suite.manager = domain.Identity{UserID: uuid.NewString(), Roles: []domain.CompanyRole{domain.RoleManager}}
	suite.owner = domain.Identity{UserID: uuid.NewString(), Roles: []domain.CompanyRole{domain.RoleOwner}}
}

func (suite *JournalServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.AccountID:  suite.cashAccount,
		suite.salesAccount.AccountID: suite.salesAccount,
	}
}

func (suite *JournalServiceTestSuite) saleRequest(amount int64) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		Date:         time.Now().Add(-time.Hour),
		Description:  "Cash sale",
		CurrencyCode: "USD",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(amount)},
			{AccountID: suite.salesAccount.AccountID, Credit: decimal.NewFromInt(amount)},
		},
	}
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestCreateEntry_AccountantStartsPendingVerification() {
	ctx := context.Background()
	req := suite.saleRequest(45000)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("CreateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Return(func(entry domain.JournalEntry) *domain.JournalEntry {
			entry.EntryNumber = "JRN-2026-0001"
			return &entry
		}, nil).Once()
	suite.mockNotifier.On("Notify", ctx, suite.companyID, domain.NotifyEntrySubmitted, domain.SeverityInfo,
		mock.Anything, mock.Anything, "journal_entry", mock.Anything).Once()

	created, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.accountant)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(domain.StatusPendingVerification, created.Status)
	suite.Equal("JRN-2026-0001", created.EntryNumber)
	suite.True(created.TotalDebit.Equal(decimal.NewFromInt(45000)))
	suite.True(created.TotalCredit.Equal(decimal.NewFromInt(45000)))
	suite.True(created.IsBalanced())
	suite.Len(created.Lines, 2)

	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_ManagerStartsDraft() {
	ctx := context.Background()
	req := suite.saleRequest(100)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("CreateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Return(func(entry domain.JournalEntry) *domain.JournalEntry {
			return &entry
		}, nil).Once()

	created, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.manager)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, created.Status)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		Date:         time.Now().Add(-time.Hour),
		Description:  "Does not balance",
		CurrencyCode: "USD",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.salesAccount.AccountID, Credit: decimal.NewFromInt(90)},
		},
	}

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_FutureDateRejectedForAccountant() {
	ctx := context.Background()
	req := suite.saleRequest(100)
	req.Date = time.Now().Add(48 * time.Hour)

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "future transaction dates")
}

func (suite *JournalServiceTestSuite) TestCreateEntry_FutureDateAllowedForOwner() {
	ctx := context.Background()
	req := suite.saleRequest(100)
	req.Date = time.Now().Add(48 * time.Hour)

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("CreateEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Return(func(entry domain.JournalEntry) *domain.JournalEntry {
			return &entry
		}, nil).Once()
	suite.mockNotifier.On("Notify", ctx, suite.companyID, domain.NotifyEntrySubmitted, domain.SeverityInfo,
		mock.Anything, mock.Anything, "journal_entry", mock.Anything).Once()

	created, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.owner)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPendingVerification, created.Status)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_SingleAccountRejected() {
	ctx := context.Background()
	req := dto.CreateEntryRequest{
		Date:         time.Now().Add(-time.Hour),
		Description:  "Self transfer",
		CurrencyCode: "USD",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.cashAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "two different accounts")
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccountRejected() {
	ctx := context.Background()
	req := suite.saleRequest(100)

	accounts := suite.accountsMap()
	inactive := accounts[suite.salesAccount.AccountID]
	inactive.IsActive = false
	accounts[suite.salesAccount.AccountID] = inactive

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.companyID, req, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) pendingEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:      uuid.NewString(),
		CompanyID:    suite.companyID,
		EntryNumber:  "JRN-2026-0007",
		EntryDate:    time.Now().Add(-24 * time.Hour),
		Description:  "Cash sale",
		Status:       domain.StatusPendingVerification,
		CurrencyCode: "USD",
		ExchangeRate: decimal.NewFromInt(1),
		TotalDebit:   decimal.NewFromInt(45000),
		TotalCredit:  decimal.NewFromInt(45000),
	}
}

func (suite *JournalServiceTestSuite) entryLines(entryID string, amount int64) []domain.JournalLine {
	amt := decimal.NewFromInt(amount)
	return []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: amt, DebitBase: amt, ExchangeRate: decimal.NewFromInt(1)},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.salesAccount.AccountID, Credit: amt, CreditBase: amt, ExchangeRate: decimal.NewFromInt(1)},
	}
}

func (suite *JournalServiceTestSuite) TestTransition_VerifyByManager() {
	ctx := context.Background()
	entry := suite.pendingEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Twice()
	suite.mockJournalRepo.On("UpdateEntryStatus", ctx, entry.EntryID, domain.StatusPendingVerification, domain.StatusVerified, domain.ActionVerify, suite.manager.UserID, (*string)(nil), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(suite.entryLines(entry.EntryID, 45000), nil).Once()

	updated, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID, dto.TransitionRequest{Action: domain.ActionVerify}, suite.manager)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestTransition_VerifyByAccountantForbidden() {
	ctx := context.Background()
	entry := suite.pendingEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID, dto.TransitionRequest{Action: domain.ActionVerify}, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateEntryStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestTransition_ApprovePropagatesBalances() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.Status = domain.StatusVerified
	lines := suite.entryLines(entry.EntryID, 45000)

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Twice()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(lines, nil).Twice()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()

	expected := map[string]decimal.Decimal{
		suite.cashAccount.AccountID:  decimal.NewFromInt(45000),
		suite.salesAccount.AccountID: decimal.NewFromInt(45000),
	}
	suite.mockJournalRepo.On("ApproveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			if len(changes) != len(expected) {
				return false
			}
			for id, want := range expected {
				got, ok := changes[id]
				if !ok || !got.Equal(want) {
					return false
				}
			}
			return true
		}), false, suite.owner.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID, dto.TransitionRequest{Action: domain.ActionApprove}, suite.owner)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestTransition_ApproveFromDraftForbidden() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.Status = domain.StatusDraft

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID, dto.TransitionRequest{Action: domain.ActionApprove}, suite.owner)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "ApproveEntry",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestTransition_RejectWithoutReason() {
	ctx := context.Background()
	entry := suite.pendingEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID, dto.TransitionRequest{Action: domain.ActionReject}, suite.manager)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "rejection reason")
}

func (suite *JournalServiceTestSuite) TestTransition_RetrieveByAccountant() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.Status = domain.StatusRejected
	reason := "wrong amount"
	entry.RejectionReason = &reason

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Twice()
	suite.mockJournalRepo.On("UpdateEntryStatus", ctx, entry.EntryID, domain.StatusRejected, domain.StatusDraft, domain.ActionRetrieve, suite.accountant.UserID, (*string)(nil), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(suite.entryLines(entry.EntryID, 45000), nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID, dto.TransitionRequest{Action: domain.ActionRetrieve}, suite.accountant)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestTransition_RejectLosesRaceReturnsConflict() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.Status = domain.StatusVerified
	reason := "duplicate of JRN-2026-0007"

	// The status write asserts the entry is still VERIFIED. A concurrent
	// approval committed first, so the write hits zero rows and the reject
	// must not land.
	conflict := fmt.Errorf("%w: entry %s is no longer %s", apperrors.ErrConflict, entry.EntryID, domain.StatusVerified)
	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("UpdateEntryStatus", ctx, entry.EntryID, domain.StatusVerified, domain.StatusRejected, domain.ActionReject, suite.manager.UserID, &reason, mock.AnythingOfType("time.Time")).Return(conflict).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID,
		dto.TransitionRequest{Action: domain.ActionReject, Reason: &reason}, suite.manager)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestTransition_ApproveLosesRaceReturnsConflict() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.Status = domain.StatusVerified

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(suite.entryLines(entry.EntryID, 45000), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()

	conflict := fmt.Errorf("%w: entry %s was not in an approvable state", apperrors.ErrConflict, entry.EntryID)
	suite.mockJournalRepo.On("ApproveEntry", ctx, mock.MatchedBy(func(e domain.JournalEntry) bool {
		return e.Status == domain.StatusVerified
	}), mock.Anything, false, suite.owner.UserID, mock.Anything).Return(conflict).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID,
		dto.TransitionRequest{Action: domain.ActionApprove}, suite.owner)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestTransition_OverdraftErrorSurfaces() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.Status = domain.StatusVerified

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(suite.entryLines(entry.EntryID, 45000), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()

	overdraftErr := apperrors.NewAppError(400, "approving would overdraw account 1000", apperrors.ErrValidation)
	suite.mockJournalRepo.On("ApproveEntry", ctx, mock.Anything, mock.Anything, false, suite.owner.UserID, mock.Anything).Return(overdraftErr).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID, dto.TransitionRequest{Action: domain.ActionApprove}, suite.owner)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "overdraw")
}

func (suite *JournalServiceTestSuite) TestTransition_ExplicitOverrideReachesRepository() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.Status = domain.StatusVerified

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Twice()
	suite.mockJournalRepo.On("FindLinesByEntryID", ctx, entry.EntryID).Return(suite.entryLines(entry.EntryID, 45000), nil).Twice()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockJournalRepo.On("ApproveEntry", ctx, mock.Anything, mock.Anything, true, suite.owner.UserID, mock.Anything).Return(nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID,
		dto.TransitionRequest{Action: domain.ActionApprove, OverrideOverdraft: true}, suite.owner)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestTransition_OverrideIgnoredForManager() {
	ctx := context.Background()
	entry := suite.pendingEntry()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID,
		dto.TransitionRequest{Action: domain.ActionApprove, OverrideOverdraft: true}, suite.manager)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *JournalServiceTestSuite) TestTransition_CrossCompanyHidden() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.CompanyID = uuid.NewString()

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.Transition(ctx, suite.companyID, entry.EntryID, dto.TransitionRequest{Action: domain.ActionVerify}, suite.manager)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestUpdateEntry_ApprovedIsImmutable() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.Status = domain.StatusApproved

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	desc := "amended"
	_, err := suite.service.UpdateEntry(ctx, suite.companyID, entry.EntryID, dto.UpdateEntryRequest{Description: &desc}, suite.accountant)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_DraftByAccountant() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.Status = domain.StatusDraft

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("DeleteEntry", ctx, entry.EntryID).Return(nil).Once()

	err := suite.service.DeleteEntry(ctx, suite.companyID, entry.EntryID, suite.accountant)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeleteEntry_ManagerForbidden() {
	ctx := context.Background()
	entry := suite.pendingEntry()
	entry.Status = domain.StatusDraft

	suite.mockJournalRepo.On("FindEntryByID", ctx, entry.EntryID).Return(entry, nil).Once()

	err := suite.service.DeleteEntry(ctx, suite.companyID, entry.EntryID, suite.manager)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteEntry", mock.Anything, mock.Anything)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
