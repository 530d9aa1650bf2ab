package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// notificationHandler handles HTTP requests related to notifications.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
	companyService      portssvc.CompanyAuthorizerSvc
}

func newNotificationHandler(notificationService portssvc.NotificationSvcFacade, companyService portssvc.CompanyAuthorizerSvc) *notificationHandler {
	return &notificationHandler{
		notificationService: notificationService,
		companyService:      companyService,
	}
}

// registerNotificationRoutes registers notification routes under a company group.
func registerNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade, companyService portssvc.CompanyAuthorizerSvc) {
	h := newNotificationHandler(notificationService, companyService)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/derive", h.deriveNotifications)
		notifications.POST("/:notificationID/read", h.markRead)
	}
}

// listNotifications godoc
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param companyID path string true "Company ID"
// @Param unreadOnly query bool false "Only unread notifications"
// @Param limit query int false "Page size"
// @Success 200 {array} dto.NotificationResponse
// @Security BearerAuth
// @Router /companies/{companyID}/notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	limit, offset := parseLimitOffset(c)
	unreadOnly := c.Query("unreadOnly") == "true"

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), companyID, actor, unreadOnly, limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list notifications")
		return
	}

	resp := make([]dto.NotificationResponse, len(notifications))
	for i := range notifications {
		resp[i] = dto.ToNotificationResponse(&notifications[i])
	}
	c.JSON(http.StatusOK, resp)
}

// deriveNotifications godoc
// @Summary Derive notifications from ledger state
// @Description Scans for overdue invoices, expiring letters of credit and maturing loans. Idempotent.
// @Tags notifications
// @Produce json
// @Param companyID path string true "Company ID"
// @Success 200 {object} dto.DeriveNotificationsResponse
// @Security BearerAuth
// @Router /companies/{companyID}/notifications/derive [post]
func (h *notificationHandler) deriveNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, _, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	created, err := h.notificationService.DeriveNotifications(c.Request.Context(), companyID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to derive notifications")
		return
	}

	logger.Info("Notifications derived", slog.Int("created", created))
	c.JSON(http.StatusOK, dto.DeriveNotificationsResponse{Created: created})
}

// markRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Param companyID path string true "Company ID"
// @Param notificationID path string true "Notification ID"
// @Success 204 "Marked read"
// @Failure 404 {object} map[string]string "Notification not found"
// @Security BearerAuth
// @Router /companies/{companyID}/notifications/{notificationID}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	notificationID := c.Param("notificationID")

	if err := h.notificationService.MarkRead(c.Request.Context(), companyID, notificationID, actor); err != nil {
		respondServiceError(c, logger, err, "Failed to mark notification read")
		return
	}

	c.Status(http.StatusNoContent)
}
