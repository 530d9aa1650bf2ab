package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
	companyService portssvc.CompanyAuthorizerSvc
}

func newJournalHandler(journalService portssvc.JournalSvcFacade, companyService portssvc.CompanyAuthorizerSvc) *journalHandler {
	return &journalHandler{
		journalService: journalService,
		companyService: companyService,
	}
}

// RegisterJournalRoutes registers journal entry routes under a company group.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade, companyService portssvc.CompanyAuthorizerSvc) {
	h := newJournalHandler(journalService, companyService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
		entries.POST("/:entryID/transition", h.transitionEntry)
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Creates a balanced journal entry in its role-dependent initial status
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param entry body dto.CreateEntryRequest true "Journal entry"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /companies/{companyID}/journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), companyID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("status", string(entry.Status)))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// transitionEntry godoc
// @Summary Transition a journal entry
// @Description Applies one of submit/verify/reject/retrieve/approve to a journal entry
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param entryID path string true "Entry ID"
// @Param transition body dto.TransitionRequest true "Requested action"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid request or transition"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /companies/{companyID}/journal-entries/{entryID}/transition [post]
func (h *journalHandler) transitionEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	entryID := c.Param("entryID")

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transitionEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.Transition(c.Request.Context(), companyID, entryID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to transition journal entry")
		return
	}

	logger.Info("Journal entry transitioned",
		slog.String("entry_id", entry.EntryID),
		slog.String("action", string(req.Action)),
		slog.String("status", string(entry.Status)))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its lines
// @Tags journal-entries
// @Produce json
// @Param companyID path string true "Company ID"
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /companies/{companyID}/journal-entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), companyID, entryID, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists journal entries newest-first with token pagination
// @Tags journal-entries
// @Produce json
// @Param companyID path string true "Company ID"
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination cursor"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /companies/{companyID}/journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), companyID, actor, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// updateEntry godoc
// @Summary Update a journal entry
// @Description Replaces header and lines of an entry still in DRAFT or REJECTED
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param entryID path string true "Entry ID"
// @Param entry body dto.UpdateEntryRequest true "Changes"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Entry not editable by this role or status"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /companies/{companyID}/journal-entries/{entryID} [put]
func (h *journalHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	entryID := c.Param("entryID")

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.journalService.UpdateEntry(c.Request.Context(), companyID, entryID, req, actor)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update journal entry")
		return
	}

	logger.Info("Journal entry updated", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a journal entry
// @Description Deletes an entry still in DRAFT or REJECTED
// @Tags journal-entries
// @Produce json
// @Param companyID path string true "Company ID"
// @Param entryID path string true "Entry ID"
// @Success 204 "Deleted"
// @Failure 403 {object} map[string]string "Entry not deletable by this role or status"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /companies/{companyID}/journal-entries/{entryID} [delete]
func (h *journalHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	companyID, actor, ok := resolveIdentity(c, h.companyService)
	if !ok {
		return
	}
	entryID := c.Param("entryID")

	if err := h.journalService.DeleteEntry(c.Request.Context(), companyID, entryID, actor); err != nil {
		respondServiceError(c, logger, err, "Failed to delete journal entry")
		return
	}

	logger.Info("Journal entry deleted", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}
