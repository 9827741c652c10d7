package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"telegram-crm-backend/internal/models"
	"telegram-crm-backend/internal/services"
)

type ProjectsHandler struct {
	projects *services.ProjectService
	logger   *slog.Logger
}

func NewProjectsHandler(projects *services.ProjectService, logger *slog.Logger) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, logger: logger}
}

// ListProjects godoc
// @Summary     List projects
// @Description Returns every project, newest first
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Success     200 {array}  models.ProjectResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to list projects")
		return
	}
	c.JSON(http.StatusOK, models.NewProjectListResponse(projects))
}

// CreateProject godoc
// @Summary     Create a project
// @Description Creates a project for a chat id. A chat id maps to at most one project; a repeated create answers 409 with the existing project.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body     models.CreateProjectRequest true "Project"
// @Success     201     {object} models.ProjectResponse
// @Failure     400     {object} models.ErrorResponse
// @Failure     409     {object} models.ConflictResponse
// @Failure     500     {object} models.ErrorResponse
// @Router      /projects [post]
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	project, err := h.projects.Create(c.Request.Context(), services.CreateProjectInput{
		Title:       req.Title,
		ExternalKey: req.ChatID,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, services.ErrConflict) && project != nil {
			c.JSON(http.StatusConflict, models.ConflictResponse{
				Error:   "project already exists for this chat",
				Project: models.NewProjectResponse(project),
			})
			return
		}
		respondError(c, h.logger, err, "failed to create project")
		return
	}
	c.JSON(http.StatusCreated, models.NewProjectResponse(project))
}

// GetProject godoc
// @Summary     Get project details
// @Description Returns a project with its equipment and history
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int true "Project ID"
// @Success     200        {object} models.ProjectDetailResponse
// @Failure     400        {object} models.ErrorResponse
// @Failure     404        {object} models.ErrorResponse
// @Router      /projects/{project_id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	detail, err := h.projects.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to get project")
		return
	}
	c.JSON(http.StatusOK, models.ProjectDetailResponse{
		Project:       models.NewProjectResponse(detail.Project),
		EquipmentList: models.NewEquipmentListResponse(detail.Equipment),
		History:       models.NewHistoryListResponse(detail.History),
	})
}

// GetProjectByChatID godoc
// @Summary     Get project by chat id
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       chat_id path     string true "Chat id, {chatId}_{topicId} for forum topics"
// @Success     200     {object} models.ProjectResponse
// @Failure     404     {object} models.ErrorResponse
// @Router      /projects/chat/{chat_id} [get]
func (h *ProjectsHandler) GetProjectByChatID(c *gin.Context) {
	project, err := h.projects.GetByExternalKey(c.Request.Context(), c.Param("chat_id"))
	if err != nil {
		respondError(c, h.logger, err, "failed to get project")
		return
	}
	c.JSON(http.StatusOK, models.NewProjectResponse(project))
}

// UpdateProjectStatus godoc
// @Summary     Change project status
// @Description Moves a project to any status and records the change in its history
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int                  true "Project ID"
// @Param       request    body     models.StatusRequest true "New status"
// @Success     200        {object} models.ProjectStatusResponse
// @Failure     400        {object} models.ErrorResponse
// @Failure     404        {object} models.ErrorResponse
// @Router      /projects/{project_id}/status [patch]
func (h *ProjectsHandler) UpdateProjectStatus(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	var req models.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	change, err := h.projects.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.logger, err, "failed to update project status")
		return
	}
	c.JSON(http.StatusOK, models.ProjectStatusResponse{
		Success:       true,
		OldStatus:     string(change.OldStatus),
		UpdatedStatus: string(change.NewStatus),
		Project:       models.NewProjectResponse(change.Project),
	})
}

// UpdateProject godoc
// @Summary     Update a project
// @Description Changes the provided fields and keeps the rest
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int                         true "Project ID"
// @Param       request    body     models.UpdateProjectRequest true "Fields to change"
// @Success     200        {object} models.ProjectResponse
// @Failure     400        {object} models.ErrorResponse
// @Failure     404        {object} models.ErrorResponse
// @Router      /projects/{project_id} [put]
func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	project, err := h.projects.Update(c.Request.Context(), id, services.UpdateProjectInput{
		Title:  req.Title,
		Status: req.Status,
	})
	if err != nil {
		respondError(c, h.logger, err, "failed to update project")
		return
	}
	c.JSON(http.StatusOK, models.NewProjectResponse(project))
}

// DeleteProject godoc
// @Summary     Delete a project
// @Description Deletes the project row. Its equipment and history are kept.
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int true "Project ID"
// @Success     200        {object} models.DeleteResponse
// @Failure     404        {object} models.ErrorResponse
// @Router      /projects/{project_id} [delete]
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "failed to delete project")
		return
	}
	c.JSON(http.StatusOK, models.DeleteResponse{Success: true, Message: "project deleted"})
}
