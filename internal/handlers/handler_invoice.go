package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	companyService portssvc.CompanyAuthorizerSvc
}

func newInvoiceHandler(invoiceService portssvc.InvoiceSvcFacade, companyService portssvc.CompanyAuthorizerSvc) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: invoiceService,
		companyService: companyService,
	}
}

// registerInvoiceRoutes registers invoice routes under a company group.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, companyService portssvc.CompanyAuthorizerSvc) {
	h := newInvoiceHandler(invoiceService, companyService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.PUT("/:invoiceID", h.updateInvoice)
		invoices.DELETE("/:invoiceID", h.deleteInvoice)
		invoices.POST("/:invoiceID/transition", h.transitionInvoice)
	}
}

// createInvoice godoc
// @Summary Create an invoice
// @Description Creates a customer invoice in its role-dependent initial status
// @Tags invoices
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param invoice body dto.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /companies/{companyID}/invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), companyID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("status", string(invoice.Status)))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// transitionInvoice godoc
// @Summary Transition an invoice
// @Description Applies one of submit/verify/reject/retrieve/approve; approval also posts the bridging journal entry
// @Tags invoices
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param invoiceID path string true "Invoice ID"
// @Param transition body dto.TransitionRequest true "Requested action"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid request or transition"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /companies/{companyID}/invoices/{invoiceID}/transition [post]
func (h *invoiceHandler) transitionInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	invoiceID := c.Param("invoiceID")

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transitionInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	invoice, err := h.invoiceService.Transition(c.Request.Context(), companyID, invoiceID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to transition invoice")
		return
	}

	logger.Info("Invoice transitioned",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("action", string(req.Action)),
		slog.String("status", string(invoice.Status)))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// getInvoice godoc
// @Summary Get an invoice
// @Description Retrieves an invoice with its lines
// @Tags invoices
// @Produce json
// @Param companyID path string true "Company ID"
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /companies/{companyID}/invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	invoiceID := c.Param("invoiceID")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), companyID, invoiceID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve invoice")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists invoices newest-first with token pagination
// @Tags invoices
// @Produce json
// @Param companyID path string true "Company ID"
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /companies/{companyID}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listInvoices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), companyID, actor, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateInvoice godoc
// @Summary Update an invoice
// @Description Replaces header and lines of an invoice still in DRAFT or REJECTED
// @Tags invoices
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param invoiceID path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Changes"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Invoice not editable by this role or status"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /companies/{companyID}/invoices/{invoiceID} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	invoiceID := c.Param("invoiceID")

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), companyID, invoiceID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update invoice")
		return
	}

	logger.Info("Invoice updated", slog.String("invoice_id", invoice.InvoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Description Deletes an invoice still in DRAFT or REJECTED
// @Tags invoices
// @Produce json
// @Param companyID path string true "Company ID"
// @Param invoiceID path string true "Invoice ID"
// @Success 204 "Deleted"
// @Failure 403 {object} map[string]string "Invoice not deletable by this role or status"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /companies/{companyID}/invoices/{invoiceID} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	invoiceID := c.Param("invoiceID")

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), companyID, invoiceID, actor); err != nil {
		respondServiceError(c, logger, err, "Failed to delete invoice")
		return
	}

	logger.Info("Invoice deleted", slog.String("invoice_id", invoiceID))
	c.Status(http.StatusNoContent)
}
