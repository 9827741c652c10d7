package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"telegram-crm-backend/internal/middleware"
	"telegram-crm-backend/internal/models"
	"telegram-crm-backend/internal/services"
)

// respondError writes the response for a failed service call. Domain outcomes
// carry their own message; anything else is logged and reported as failure.
func respondError(c *gin.Context, logger *slog.Logger, err error, failure string) {
	var status int
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	default:
		logger.Error(failure,
			"error", err,
			"request_id", middleware.GetRequestID(c.Request.Context()),
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   failure,
			Message: "internal server error",
		})
		return
	}
	c.JSON(status, models.ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string, err error) {
	resp := models.ErrorResponse{Error: msg}
	if err != nil {
		resp.Message = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

// pathID parses a positive integer path parameter, answering 400 when it
// is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name, nil)
		return 0, false
	}
	return id, true
}
