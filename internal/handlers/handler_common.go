package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// resolveIdentity extracts the authenticated user and the companyID path
// parameter, and resolves the user's role within that company. On failure it
// writes the error response itself and returns ok=false.
func resolveIdentity(c *gin.Context, companySvc portssvc.CompanyAuthorizerSvc) (companyID string, actor domain.Identity, ok bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID = c.Param("companyID")
	if companyID == "" {
		logger.Error("Company ID missing from path")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Company ID required in path"})
		return "", domain.Identity{}, false
	}

	userID, found := middleware.GetUserIDFromContext(c)
	if !found {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", domain.Identity{}, false
	}

	actor, err := companySvc.ResolveIdentity(c.Request.Context(), userID, companyID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve company membership")
		return "", domain.Identity{}, false
	}

	return companyID, actor, true
}

// respondServiceError maps service-layer sentinel errors onto HTTP statuses.
// Validation messages are safe to echo; everything else gets the fallback.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnavailable):
		logger.Error("Store unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Persistence layer unavailable"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
