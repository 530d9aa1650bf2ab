package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// financeHandler handles HTTP requests for letters of credit and loans.
type financeHandler struct {
	financeService portssvc.FinanceSvcFacade
	companyService portssvc.CompanyAuthorizerSvc
}

func newFinanceHandler(financeService portssvc.FinanceSvcFacade, companyService portssvc.CompanyAuthorizerSvc) *financeHandler {
	return &financeHandler{
		financeService: financeService,
		companyService: companyService,
	}
}

// registerFinanceRoutes registers LC and loan routes under a company group.
func registerFinanceRoutes(rg *gin.RouterGroup, financeService portssvc.FinanceSvcFacade, companyService portssvc.CompanyAuthorizerSvc) {
	h := newFinanceHandler(financeService, companyService)

	lcs := rg.Group("/letters-of-credit")
	{
		lcs.POST("", h.createLC)
		lcs.GET("", h.listLCs)
		lcs.GET("/:lcID", h.getLC)
	}

	loans := rg.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("", h.listLoans)
		loans.GET("/:loanID", h.getLoan)
	}
}

// createLC godoc
// @Summary Record a letter of credit
// @Tags finance
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param lc body dto.CreateLCRequest true "Letter of credit"
// @Success 201 {object} dto.LCResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Security BearerAuth
// @Router /companies/{companyID}/letters-of-credit [post]
func (h *financeHandler) createLC(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var req dto.CreateLCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createLC", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	lc, err := h.financeService.CreateLetterOfCredit(c.Request.Context(), companyID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record letter of credit")
		return
	}

	logger.Info("Letter of credit recorded", slog.String("lc_id", lc.LCID))
	c.JSON(http.StatusCreated, dto.ToLCResponse(lc))
}

// getLC godoc
// @Summary Get a letter of credit
// @Tags finance
// @Produce json
// @Param companyID path string true "Company ID"
// @Param lcID path string true "Letter of credit ID"
// @Success 200 {object} dto.LCResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /companies/{companyID}/letters-of-credit/{lcID} [get]
func (h *financeHandler) getLC(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	lcID := c.Param("lcID")

	lc, err := h.financeService.GetLetterOfCreditByID(c.Request.Context(), companyID, lcID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve letter of credit")
		return
	}

	c.JSON(http.StatusOK, dto.ToLCResponse(lc))
}

// listLCs godoc
// @Summary List letters of credit
// @Tags finance
// @Produce json
// @Param companyID path string true "Company ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.LCResponse
// @Security BearerAuth
// @Router /companies/{companyID}/letters-of-credit [get]
func (h *financeHandler) listLCs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	limit, offset := parseLimitOffset(c)

	lcs, err := h.financeService.ListLettersOfCredit(c.Request.Context(), companyID, actor, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list letters of credit")
		return
	}

	resp := make([]dto.LCResponse, len(lcs))
	for i := range lcs {
		resp[i] = dto.ToLCResponse(&lcs[i])
	}
	c.JSON(http.StatusOK, resp)
}

// createLoan godoc
// @Summary Record a loan
// @Tags finance
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param loan body dto.CreateLoanRequest true "Loan"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Security BearerAuth
// @Router /companies/{companyID}/loans [post]
func (h *financeHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	loan, err := h.financeService.CreateLoan(c.Request.Context(), companyID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record loan")
		return
	}

	logger.Info("Loan recorded", slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// getLoan godoc
// @Summary Get a loan
// @Tags finance
// @Produce json
// @Param companyID path string true "Company ID"
// @Param loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /companies/{companyID}/loans/{loanID} [get]
func (h *financeHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	loanID := c.Param("loanID")

	loan, err := h.financeService.GetLoanByID(c.Request.Context(), companyID, loanID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve loan")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// listLoans godoc
// @Summary List loans
// @Tags finance
// @Produce json
// @Param companyID path string true "Company ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.LoanResponse
// @Security BearerAuth
// @Router /companies/{companyID}/loans [get]
func (h *financeHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	limit, offset := parseLimitOffset(c)

	loans, err := h.financeService.ListLoans(c.Request.Context(), companyID, actor, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list loans")
		return
	}

	resp := make([]dto.LoanResponse, len(loans))
	for i := range loans {
		resp[i] = dto.ToLoanResponse(&loans[i])
	}
	c.JSON(http.StatusOK, resp)
}
