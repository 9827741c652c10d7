package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"telegram-crm-backend/internal/models"
	"telegram-crm-backend/internal/services"
)

type EquipmentHandler struct {
	equipment *services.EquipmentService
	logger    *slog.Logger
}

func NewEquipmentHandler(equipment *services.EquipmentService, logger *slog.Logger) *EquipmentHandler {
	return &EquipmentHandler{equipment: equipment, logger: logger}
}

func equipmentInput(req models.EquipmentRequest) services.EquipmentInput {
	return services.EquipmentInput{
		Model:        req.Model,
		Quantity:     req.Quantity,
		ItemStatus:   req.ItemStatus,
		ExpectedDate: req.ExpectedDate,
		Notes:        req.Notes,
	}
}

// scopedIDs reads the project and equipment ids of a nested equipment route.
func scopedIDs(c *gin.Context) (projectID, equipmentID int64, ok bool) {
	if projectID, ok = pathID(c, "project_id"); !ok {
		return 0, 0, false
	}
	if equipmentID, ok = pathID(c, "equipment_id"); !ok {
		return 0, 0, false
	}
	return projectID, equipmentID, true
}

// ListEquipment godoc
// @Summary     List project equipment
// @Tags        equipment
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int true "Project ID"
// @Success     200        {array}  models.EquipmentResponse
// @Failure     404        {object} models.ErrorResponse
// @Router      /projects/{project_id}/equipment [get]
func (h *EquipmentHandler) ListEquipment(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	items, err := h.equipment.List(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, h.logger, err, "failed to list equipment")
		return
	}
	c.JSON(http.StatusOK, models.NewEquipmentListResponse(items))
}

// AddEquipment godoc
// @Summary     Add equipment to a project
// @Description Quantity defaults to 1 and status to Ordered
// @Tags        equipment
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int                     true "Project ID"
// @Param       request    body     models.EquipmentRequest true "Equipment"
// @Success     201        {object} models.EquipmentResponse
// @Failure     400        {object} models.ErrorResponse
// @Failure     404        {object} models.ErrorResponse
// @Router      /projects/{project_id}/equipment [post]
func (h *EquipmentHandler) AddEquipment(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	var req models.EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	item, err := h.equipment.Add(c.Request.Context(), projectID, equipmentInput(req))
	if err != nil {
		respondError(c, h.logger, err, "failed to add equipment")
		return
	}
	c.JSON(http.StatusCreated, models.NewEquipmentResponse(item))
}

// GetEquipment godoc
// @Summary     Get an equipment item
// @Tags        equipment
// @Produce     json
// @Security    Bearer
// @Param       project_id   path     int true "Project ID"
// @Param       equipment_id path     int true "Equipment ID"
// @Success     200          {object} models.EquipmentResponse
// @Failure     403          {object} models.ErrorResponse
// @Failure     404          {object} models.ErrorResponse
// @Router      /projects/{project_id}/equipment/{equipment_id} [get]
func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	projectID, equipmentID, ok := scopedIDs(c)
	if !ok {
		return
	}
	item, err := h.equipment.Get(c.Request.Context(), equipmentID, projectID)
	if err != nil {
		respondError(c, h.logger, err, "failed to get equipment")
		return
	}
	c.JSON(http.StatusOK, models.NewEquipmentResponse(item))
}

// UpdateEquipment godoc
// @Summary     Update an equipment item
// @Description Changes the provided fields and keeps the rest
// @Tags        equipment
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id   path     int                     true "Project ID"
// @Param       equipment_id path     int                     true "Equipment ID"
// @Param       request      body     models.EquipmentRequest true "Fields to change"
// @Success     200          {object} models.EquipmentResponse
// @Failure     400          {object} models.ErrorResponse
// @Failure     403          {object} models.ErrorResponse
// @Failure     404          {object} models.ErrorResponse
// @Router      /projects/{project_id}/equipment/{equipment_id} [put]
func (h *EquipmentHandler) UpdateEquipment(c *gin.Context) {
	projectID, equipmentID, ok := scopedIDs(c)
	if !ok {
		return
	}
	var req models.EquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	item, err := h.equipment.Update(c.Request.Context(), equipmentID, projectID, equipmentInput(req))
	if err != nil {
		respondError(c, h.logger, err, "failed to update equipment")
		return
	}
	c.JSON(http.StatusOK, models.NewEquipmentResponse(item))
}

// UpdateEquipmentStatus godoc
// @Summary     Change equipment status
// @Tags        equipment
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id   path     int                  true "Project ID"
// @Param       equipment_id path     int                  true "Equipment ID"
// @Param       request      body     models.StatusRequest true "New status"
// @Success     200          {object} models.EquipmentStatusResponse
// @Failure     400          {object} models.ErrorResponse
// @Failure     403          {object} models.ErrorResponse
// @Failure     404          {object} models.ErrorResponse
// @Router      /projects/{project_id}/equipment/{equipment_id}/status [patch]
func (h *EquipmentHandler) UpdateEquipmentStatus(c *gin.Context) {
	projectID, equipmentID, ok := scopedIDs(c)
	if !ok {
		return
	}
	var req models.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	change, err := h.equipment.UpdateStatus(c.Request.Context(), equipmentID, projectID, req.Status)
	if err != nil {
		respondError(c, h.logger, err, "failed to update equipment status")
		return
	}
	c.JSON(http.StatusOK, models.EquipmentStatusResponse{
		Success:       true,
		OldStatus:     string(change.OldStatus),
		UpdatedStatus: string(change.NewStatus),
		Equipment:     models.NewEquipmentResponse(change.Equipment),
	})
}

// DeleteEquipment godoc
// @Summary     Delete an equipment item
// @Tags        equipment
// @Produce     json
// @Security    Bearer
// @Param       project_id   path     int true "Project ID"
// @Param       equipment_id path     int true "Equipment ID"
// @Success     200          {object} models.DeleteResponse
// @Failure     403          {object} models.ErrorResponse
// @Failure     404          {object} models.ErrorResponse
// @Router      /projects/{project_id}/equipment/{equipment_id} [delete]
func (h *EquipmentHandler) DeleteEquipment(c *gin.Context) {
	projectID, equipmentID, ok := scopedIDs(c)
	if !ok {
		return
	}
	if err := h.equipment.Delete(c.Request.Context(), equipmentID, projectID); err != nil {
		respondError(c, h.logger, err, "failed to delete equipment")
		return
	}
	c.JSON(http.StatusOK, models.DeleteResponse{Success: true, Message: "equipment deleted"})
}
