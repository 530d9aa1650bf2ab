package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// reportingHandler handles HTTP requests related to financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	companyService   portssvc.CompanyAuthorizerSvc
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade, companyService portssvc.CompanyAuthorizerSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: reportingService,
		companyService:   companyService,
	}
}

// registerReportingRoutes registers report routes under a company group.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, companyService portssvc.CompanyAuthorizerSvc) {
	h := newReportingHandler(reportingService, companyService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/trial-balance/export", h.exportTrialBalance)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
		reports.GET("/profit-and-loss/export", h.exportProfitAndLoss)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/balance-sheet/export", h.exportBalanceSheet)
		reports.GET("/aging", h.getAging)
		reports.GET("/ledger", h.getLedger)
	}
}

// getTrialBalance godoc
// @Summary Generate a trial balance
// @Description Per-account debit/credit totals over approved lines under the given filter
// @Tags reports
// @Produce json
// @Param companyID path string true "Company ID"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Param branchID query string false "Branch dimension"
// @Param projectID query string false "Project dimension"
// @Param costCenterID query string false "Cost center dimension"
// @Success 200 {array} domain.TrialBalanceRow
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /companies/{companyID}/reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var query dto.ReportFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for getTrialBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), companyID, query.ToDomainFilter(), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate trial balance")
		return
	}

	logger.Info("Trial balance generated", slog.Int("row_count", len(rows)))
	c.JSON(http.StatusOK, rows)
}

// exportTrialBalance godoc
// @Summary Export a trial balance
// @Description Renders the trial balance as an XLSX workbook or PDF
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param companyID path string true "Company ID"
// @Param format query string true "Export format" Enums(xlsx, pdf)
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /companies/{companyID}/reports/trial-balance/export [get]
func (h *reportingHandler) exportTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var query dto.ReportFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for exportTrialBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	format := c.Query("format")
	if format != "xlsx" && format != "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or pdf"})
		return
	}

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), companyID, query.ToDomainFilter(), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate trial balance")
		return
	}

	asOf := time.Now().UTC()
	if query.DateTo != nil {
		asOf = *query.DateTo
	}

	var payload []byte
	var contentType string
	if format == "xlsx" {
		payload, err = buildTrialBalanceXLSX(rows, asOf)
		contentType = contentTypeXLSX
	} else {
		payload, err = buildTrialBalancePDF(rows, asOf)
		contentType = contentTypePDF
	}
	if err != nil {
		logger.Error("Failed to render trial balance export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render export"})
		return
	}

	filename := fmt.Sprintf("trial-balance-%s.%s", asOf.Format("2006-01-02"), format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

// getProfitAndLoss godoc
// @Summary Generate a profit and loss statement
// @Tags reports
// @Produce json
// @Param companyID path string true "Company ID"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.PAndLReport
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /companies/{companyID}/reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var query dto.ReportFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for getProfitAndLoss", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), companyID, query.ToDomainFilter(), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate profit and loss statement")
		return
	}

	logger.Info("Profit and loss generated",
		slog.Int("income_accounts", len(report.Income)),
		slog.Int("expense_accounts", len(report.Expenses)))
	c.JSON(http.StatusOK, report)
}

// exportProfitAndLoss godoc
// @Summary Export a profit and loss statement
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param companyID path string true "Company ID"
// @Param format query string true "Export format" Enums(xlsx, pdf)
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /companies/{companyID}/reports/profit-and-loss/export [get]
func (h *reportingHandler) exportProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var query dto.ReportFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for exportProfitAndLoss", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	format := c.Query("format")
	if format != "xlsx" && format != "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or pdf"})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), companyID, query.ToDomainFilter(), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate profit and loss statement")
		return
	}

	var payload []byte
	var contentType string
	if format == "xlsx" {
		payload, err = buildProfitAndLossXLSX(report, query.DateFrom, query.DateTo)
		contentType = contentTypeXLSX
	} else {
		payload, err = buildProfitAndLossPDF(report, query.DateFrom, query.DateTo)
		contentType = contentTypePDF
	}
	if err != nil {
		logger.Error("Failed to render profit and loss export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render export"})
		return
	}

	filename := "profit-and-loss." + format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

// getBalanceSheet godoc
// @Summary Generate a balance sheet
// @Description Cumulative as of dateTo; equity includes the synthetic Retained Earnings line
// @Tags reports
// @Produce json
// @Param companyID path string true "Company ID"
// @Param dateTo query string false "Report date (YYYY-MM-DD)"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /companies/{companyID}/reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var query dto.ReportFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for getBalanceSheet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), companyID, query.ToDomainFilter(), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate balance sheet")
		return
	}

	logger.Info("Balance sheet generated",
		slog.Int("asset_accounts", len(report.Assets)),
		slog.Int("liability_accounts", len(report.Liabilities)),
		slog.Int("equity_accounts", len(report.Equity)))
	c.JSON(http.StatusOK, report)
}

// exportBalanceSheet godoc
// @Summary Export a balance sheet
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param companyID path string true "Company ID"
// @Param format query string true "Export format" Enums(xlsx, pdf)
// @Param dateTo query string false "Report date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /companies/{companyID}/reports/balance-sheet/export [get]
func (h *reportingHandler) exportBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var query dto.ReportFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for exportBalanceSheet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	format := c.Query("format")
	if format != "xlsx" && format != "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be xlsx or pdf"})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), companyID, query.ToDomainFilter(), actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate balance sheet")
		return
	}

	asOf := time.Now().UTC()
	if query.DateTo != nil {
		asOf = *query.DateTo
	}

	var payload []byte
	var contentType string
	if format == "xlsx" {
		payload, err = buildBalanceSheetXLSX(report, asOf)
		contentType = contentTypeXLSX
	} else {
		payload, err = buildBalanceSheetPDF(report, asOf)
		contentType = contentTypePDF
	}
	if err != nil {
		logger.Error("Failed to render balance sheet export", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render export"})
		return
	}

	filename := fmt.Sprintf("balance-sheet-%s.%s", asOf.Format("2006-01-02"), format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}

// getAging godoc
// @Summary Generate a receivables or payables aging report
// @Description Buckets open balances per counterparty by due-date distance from today
// @Tags reports
// @Produce json
// @Param companyID path string true "Company ID"
// @Param side query string true "RECEIVABLE or PAYABLE"
// @Success 200 {array} domain.AgingRow
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /companies/{companyID}/reports/aging [get]
func (h *reportingHandler) getAging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var query dto.AgingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for getAging", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rows, err := h.reportingService.Aging(c.Request.Context(), companyID, query.Side, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate aging report")
		return
	}

	logger.Info("Aging report generated",
		slog.String("side", string(query.Side)),
		slog.Int("row_count", len(rows)))
	c.JSON(http.StatusOK, rows)
}

// getLedger godoc
// @Summary List the general ledger
// @Description Approved journal lines chronologically, optionally scoped to one account
// @Tags reports
// @Produce json
// @Param companyID path string true "Company ID"
// @Param accountID query string false "Restrict to one account"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /companies/{companyID}/reports/ledger [get]
func (h *reportingHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var params dto.LedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for getLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rows, nextToken, err := h.reportingService.Ledger(c.Request.Context(), companyID, params.AccountID, params.ToDomainFilter(), actor, params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list ledger")
		return
	}

	c.JSON(http.StatusOK, dto.LedgerResponse{Rows: rows, NextToken: nextToken})
}
