package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"telegram-crm-backend/internal/models"
	"telegram-crm-backend/internal/services"
)

type HistoryHandler struct {
	history *services.HistoryService
	logger  *slog.Logger
}

func NewHistoryHandler(history *services.HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, logger: logger}
}

// ListHistory godoc
// @Summary     List project history
// @Description Returns the project timeline, newest first
// @Tags        history
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int true "Project ID"
// @Success     200        {array}  models.HistoryResponse
// @Failure     404        {object} models.ErrorResponse
// @Router      /projects/{project_id}/history [get]
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	entries, err := h.history.ListForProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, h.logger, err, "failed to list history")
		return
	}
	c.JSON(http.StatusOK, models.NewHistoryListResponse(entries))
}

// ListHistoryByType godoc
// @Summary     List project history by action type
// @Tags        history
// @Produce     json
// @Security    Bearer
// @Param       project_id  path     int    true "Project ID"
// @Param       action_type path     string true "Action type"
// @Success     200         {array}  models.HistoryResponse
// @Failure     404         {object} models.ErrorResponse
// @Router      /projects/{project_id}/history/type/{action_type} [get]
func (h *HistoryHandler) ListHistoryByType(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	entries, err := h.history.ListForProjectByType(c.Request.Context(), projectID, c.Param("action_type"))
	if err != nil {
		respondError(c, h.logger, err, "failed to list history")
		return
	}
	c.JSON(http.StatusOK, models.NewHistoryListResponse(entries))
}

// AddHistory godoc
// @Summary     Add a history entry
// @Tags        history
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int                   true "Project ID"
// @Param       request    body     models.HistoryRequest true "Entry"
// @Success     201        {object} models.HistoryResponse
// @Failure     400        {object} models.ErrorResponse
// @Failure     404        {object} models.ErrorResponse
// @Router      /projects/{project_id}/history [post]
func (h *HistoryHandler) AddHistory(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	var req models.HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	entry, err := h.history.Add(c.Request.Context(), projectID, req.ActionType, req.Message)
	if err != nil {
		respondError(c, h.logger, err, "failed to add history entry")
		return
	}
	c.JSON(http.StatusCreated, models.NewHistoryResponse(entry))
}

// GetHistoryEntry godoc
// @Summary     Get a history entry
// @Tags        history
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int true "Project ID"
// @Param       history_id path     int true "History entry ID"
// @Success     200        {object} models.HistoryResponse
// @Failure     403        {object} models.ErrorResponse
// @Failure     404        {object} models.ErrorResponse
// @Router      /projects/{project_id}/history/{history_id} [get]
func (h *HistoryHandler) GetHistoryEntry(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	historyID, ok := pathID(c, "history_id")
	if !ok {
		return
	}
	entry, err := h.history.Get(c.Request.Context(), historyID, projectID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get history entry")
		return
	}
	c.JSON(http.StatusOK, models.NewHistoryResponse(entry))
}

// DeleteHistoryEntry godoc
// @Summary     Delete a history entry
// @Description Administrative cleanup of a single entry
// @Tags        history
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int true "Project ID"
// @Param       history_id path     int true "History entry ID"
// @Success     200        {object} models.DeleteResponse
// @Failure     403        {object} models.ErrorResponse
// @Failure     404        {object} models.ErrorResponse
// @Router      /projects/{project_id}/history/{history_id} [delete]
func (h *HistoryHandler) DeleteHistoryEntry(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	historyID, ok := pathID(c, "history_id")
	if !ok {
		return
	}
	if err := h.history.Delete(c.Request.Context(), historyID, projectID); err != nil {
		respondError(c, h.logger, err, "failed to delete history entry")
		return
	}
	c.JSON(http.StatusOK, models.DeleteResponse{Success: true, Message: "history entry deleted"})
}

// PurgeHistory godoc
// @Summary     Delete all history of a project
// @Description Administrative cleanup; also removes entries left behind by a deleted project
// @Tags        history
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int true "Project ID"
// @Success     200        {object} models.HistoryPurgeResponse
// @Router      /projects/{project_id}/history [delete]
func (h *HistoryHandler) PurgeHistory(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	n, err := h.history.DeleteAll(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, h.logger, err, "failed to delete history")
		return
	}
	c.JSON(http.StatusOK, models.HistoryPurgeResponse{Success: true, Deleted: n})
}
