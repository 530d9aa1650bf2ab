package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// partyHandler handles HTTP requests for customers and vendors.
type partyHandler struct {
	partyService   portssvc.PartySvcFacade
	companyService portssvc.CompanyAuthorizerSvc
}

func newPartyHandler(partyService portssvc.PartySvcFacade, companyService portssvc.CompanyAuthorizerSvc) *partyHandler {
	return &partyHandler{
		partyService:   partyService,
		companyService: companyService,
	}
}

// registerPartyRoutes registers customer and vendor routes under a company group.
func registerPartyRoutes(rg *gin.RouterGroup, partyService portssvc.PartySvcFacade, companyService portssvc.CompanyAuthorizerSvc) {
	h := newPartyHandler(partyService, companyService)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:customerID", h.getCustomer)
	}

	vendors := rg.Group("/vendors")
	{
		vendors.POST("", h.createVendor)
		vendors.GET("", h.listVendors)
		vendors.GET("/:vendorID", h.getVendor)
	}
}

// createCustomer godoc
// @Summary Create a customer
// @Tags parties
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param customer body dto.CreatePartyRequest true "Customer"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Security BearerAuth
// @Router /companies/{companyID}/customers [post]
func (h *partyHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	customer, err := h.partyService.CreateCustomer(c.Request.Context(), companyID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create customer")
		return
	}

	logger.Info("Customer created", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// getCustomer godoc
// @Summary Get a customer
// @Tags parties
// @Produce json
// @Param companyID path string true "Company ID"
// @Param customerID path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /companies/{companyID}/customers/{customerID} [get]
func (h *partyHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	customerID := c.Param("customerID")

	customer, err := h.partyService.GetCustomerByID(c.Request.Context(), companyID, customerID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve customer")
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// listCustomers godoc
// @Summary List customers
// @Tags parties
// @Produce json
// @Param companyID path string true "Company ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.CustomerResponse
// @Security BearerAuth
// @Router /companies/{companyID}/customers [get]
func (h *partyHandler) listCustomers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	limit, offset := parseLimitOffset(c)

	customers, err := h.partyService.ListCustomers(c.Request.Context(), companyID, actor, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list customers")
		return
	}

	resp := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		resp[i] = dto.ToCustomerResponse(&customers[i])
	}
	c.JSON(http.StatusOK, resp)
}

// createVendor godoc
// @Summary Create a vendor
// @Tags parties
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param vendor body dto.CreatePartyRequest true "Vendor"
// @Success 201 {object} dto.VendorResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Security BearerAuth
// @Router /companies/{companyID}/vendors [post]
func (h *partyHandler) createVendor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var req dto.CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createVendor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	vendor, err := h.partyService.CreateVendor(c.Request.Context(), companyID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create vendor")
		return
	}

	logger.Info("Vendor created", slog.String("vendor_id", vendor.VendorID))
	c.JSON(http.StatusCreated, dto.ToVendorResponse(vendor))
}

// getVendor godoc
// @Summary Get a vendor
// @Tags parties
// @Produce json
// @Param companyID path string true "Company ID"
// @Param vendorID path string true "Vendor ID"
// @Success 200 {object} dto.VendorResponse
// @Failure 404 {object} map[string]string "Vendor not found"
// @Security BearerAuth
// @Router /companies/{companyID}/vendors/{vendorID} [get]
func (h *partyHandler) getVendor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	vendorID := c.Param("vendorID")

	vendor, err := h.partyService.GetVendorByID(c.Request.Context(), companyID, vendorID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve vendor")
		return
	}

	c.JSON(http.StatusOK, dto.ToVendorResponse(vendor))
}

// listVendors godoc
// @Summary List vendors
// @Tags parties
// @Produce json
// @Param companyID path string true "Company ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.VendorResponse
// @Security BearerAuth
// @Router /companies/{companyID}/vendors [get]
func (h *partyHandler) listVendors(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	limit, offset := parseLimitOffset(c)

	vendors, err := h.partyService.ListVendors(c.Request.Context(), companyID, actor, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list vendors")
		return
	}

	resp := make([]dto.VendorResponse, len(vendors))
	for i := range vendors {
		resp[i] = dto.ToVendorResponse(&vendors[i])
	}
	c.JSON(http.StatusOK, resp)
}
