package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/handlers"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

type CompanyHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockCompanyService *MockCompanyService
	jwtSecret          string

	companyID string
	userID    string
}

func (suite *CompanyHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret, "ledgerkeep-test"))

	suite.mockCompanyService = new(MockCompanyService)

	company := suite.router.Group("/api/v1/companies/:companyID")
	handlers.RegisterCompanyRoutes(company, suite.mockCompanyService)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *CompanyHandlerTestSuite) tokenWithIssuer(issuer string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   suite.userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *CompanyHandlerTestSuite) managerIdentity() domain.Identity {
	return domain.Identity{UserID: suite.userID, Roles: []domain.CompanyRole{domain.RoleManager}}
}

func (suite *CompanyHandlerTestSuite) TestListSubordinates_Success() {
	team := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}

	suite.mockCompanyService.On("ResolveIdentity", mock.Anything, suite.userID, suite.companyID).
		Return(suite.managerIdentity(), nil).Once()
	suite.mockCompanyService.On("SubordinateIDs", mock.Anything, suite.companyID, suite.userID).
		Return(team, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/companies/"+suite.companyID+"/subordinates", nil)
	req.Header.Set("Authorization", "Bearer "+suite.tokenWithIssuer("ledgerkeep-test"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SubordinatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(team, resp.UserIDs)
	suite.mockCompanyService.AssertExpectations(suite.T())
}

func (suite *CompanyHandlerTestSuite) TestListSubordinates_WrongIssuerRejected() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/companies/"+suite.companyID+"/subordinates", nil)
	req.Header.Set("Authorization", "Bearer "+suite.tokenWithIssuer("someone-else"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockCompanyService.AssertNotCalled(suite.T(), "SubordinateIDs",
		mock.Anything, mock.Anything, mock.Anything)
}

func TestCompanyHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyHandlerTestSuite))
}
