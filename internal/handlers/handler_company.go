package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// companyHandler exposes membership lookups backed by the authorizer.
type companyHandler struct {
	companyService portssvc.CompanyAuthorizerSvc
}

// RegisterCompanyRoutes registers membership routes under a company group.
func RegisterCompanyRoutes(rg *gin.RouterGroup, companyService portssvc.CompanyAuthorizerSvc) {
	h := &companyHandler{companyService: companyService}

	rg.GET("/subordinates", h.listSubordinates)
}

// listSubordinates godoc
// @Summary List the caller's transitive subordinates
// @Description Walks the manager hierarchy down from the caller. Notification clients use it to scope attention to the caller's team.
// @Tags companies
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {object} dto.SubordinatesResponse
// @Security BearerAuth
// @Router /companies/{companyID}/subordinates [get]
func (h *companyHandler) listSubordinates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	userIDs, err := h.companyService.SubordinateIDs(c.Request.Context(), companyID, actor.UserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list subordinates")
		return
	}

	c.JSON(http.StatusOK, dto.SubordinatesResponse{UserIDs: userIDs})
}
