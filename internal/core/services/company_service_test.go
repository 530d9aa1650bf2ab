package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
)

// --- Mock CompanyRepository ---

type MockCompanyRepository struct {
	mock.Mock
}

var _ portsrepo.CompanyRepository = (*MockCompanyRepository)(nil)

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindMember(ctx context.Context, userID, companyID string) (*domain.CompanyMember, error) {
	args := m.Called(ctx, userID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyMember), args.Error(1)
}

func (m *MockCompanyRepository) FindDirectSubordinateIDs(ctx context.Context, companyID, managerID string) ([]string, error) {
	args := m.Called(ctx, companyID, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Test Suite Setup ---

type CompanyServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockCompanyRepository
	service   portssvc.CompanyAuthorizerSvc
	companyID string
	company   domain.Company
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCompanyRepository)
	suite.service = services.NewCompanyService(suite.mockRepo)

	suite.companyID = uuid.NewString()
	suite.company = domain.Company{
		CompanyID:        suite.companyID,
		Name:             "Test Manufacturing Co",
		BaseCurrencyCode: "USD",
		IsActive:         true,
	}
}

// --- Test Cases ---

func (suite *CompanyServiceTestSuite) TestResolveIdentity_Member() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("FindCompanyByID", ctx, suite.companyID).Return(&suite.company, nil).Once()
	suite.mockRepo.On("FindMember", ctx, userID, suite.companyID).Return(&domain.CompanyMember{
		UserID:    userID,
		CompanyID: suite.companyID,
		Role:      domain.RoleAccountant,
	}, nil).Once()

	identity, err := suite.service.ResolveIdentity(ctx, userID, suite.companyID)

	suite.Require().NoError(err)
	suite.Equal(userID, identity.UserID)
	suite.True(identity.HasRole(domain.RoleAccountant))
	suite.False(identity.HasRole(domain.RoleOwner))
}

func (suite *CompanyServiceTestSuite) TestResolveIdentity_NonMemberForbidden() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("FindCompanyByID", ctx, suite.companyID).Return(&suite.company, nil).Once()
	suite.mockRepo.On("FindMember", ctx, userID, suite.companyID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveIdentity(ctx, userID, suite.companyID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CompanyServiceTestSuite) TestResolveIdentity_InactiveCompanyForbidden() {
	ctx := context.Background()
	inactive := suite.company
	inactive.IsActive = false

	suite.mockRepo.On("FindCompanyByID", ctx, suite.companyID).Return(&inactive, nil).Once()

	_, err := suite.service.ResolveIdentity(ctx, uuid.NewString(), suite.companyID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindMember", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestResolveIdentity_UnknownCompany() {
	ctx := context.Background()

	suite.mockRepo.On("FindCompanyByID", ctx, suite.companyID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveIdentity(ctx, uuid.NewString(), suite.companyID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CompanyServiceTestSuite) TestSubordinateIDs_TransitiveWalk() {
	ctx := context.Background()
	manager := "mgr"

	suite.mockRepo.On("FindDirectSubordinateIDs", ctx, suite.companyID, "mgr").Return([]string{"a", "b"}, nil).Once()
	suite.mockRepo.On("FindDirectSubordinateIDs", ctx, suite.companyID, "a").Return([]string{"c"}, nil).Once()
	suite.mockRepo.On("FindDirectSubordinateIDs", ctx, suite.companyID, "b").Return([]string{}, nil).Once()
	suite.mockRepo.On("FindDirectSubordinateIDs", ctx, suite.companyID, "c").Return([]string{}, nil).Once()

	ids, err := suite.service.SubordinateIDs(ctx, suite.companyID, manager)

	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"a", "b", "c"}, ids)
}

func (suite *CompanyServiceTestSuite) TestSubordinateIDs_CycleTerminates() {
	ctx := context.Background()

	// a manages b, b manages a. The walk must terminate and report each once.
	suite.mockRepo.On("FindDirectSubordinateIDs", ctx, suite.companyID, "a").Return([]string{"b"}, nil).Once()
	suite.mockRepo.On("FindDirectSubordinateIDs", ctx, suite.companyID, "b").Return([]string{"a"}, nil).Once()

	ids, err := suite.service.SubordinateIDs(ctx, suite.companyID, "a")

	suite.Require().NoError(err)
	suite.Equal([]string{"b"}, ids)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
