package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"telegram-crm-backend/internal/models"
	"telegram-crm-backend/internal/services"
)

type EmailHandler struct {
	email  *services.EmailService
	logger *slog.Logger
}

func NewEmailHandler(email *services.EmailService, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{email: email, logger: logger}
}

// SendEmail godoc
// @Summary     Send an email for a project
// @Description Sends a message with the project title in the subject and records it in the project history
// @Tags        email
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path     int                 true "Project ID"
// @Param       request    body     models.EmailRequest true "Message"
// @Success     200        {object} models.EmailResponse
// @Failure     400        {object} models.ErrorResponse
// @Failure     404        {object} models.ErrorResponse
// @Failure     500        {object} models.ErrorResponse
// @Router      /projects/{project_id}/email/send [post]
func (h *EmailHandler) SendEmail(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	id, err := h.email.Send(c.Request.Context(), projectID, services.EmailInput{
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		respondError(c, h.logger, err, "failed to send email")
		return
	}
	c.JSON(http.StatusOK, models.EmailResponse{Success: true, Info: id, Message: "email sent"})
}
