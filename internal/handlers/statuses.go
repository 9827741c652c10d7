package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"telegram-crm-backend/internal/models"
)

// StatusesHandler godoc
// @Summary     List statuses
// @Description Returns project statuses, equipment statuses and history action types with display labels
// @Tags        statuses
// @Produce     json
// @Param       locale query    string false "Label locale (en, ru)"
// @Success     200    {object} models.StatusesResponse
// @Router      /statuses [get]
func StatusesHandler(c *gin.Context) {
	locale := c.DefaultQuery("locale", models.DefaultLocale)
	if !slices.Contains(models.Locales(), locale) {
		locale = models.DefaultLocale
	}

	resp := models.StatusesResponse{Locale: locale}
	for _, s := range models.ProjectStatuses {
		resp.Project = append(resp.Project, option(locale, string(s)))
	}
	for _, s := range models.ItemStatuses {
		resp.Equipment = append(resp.Equipment, option(locale, string(s)))
	}
	for _, a := range models.ActionTypes {
		resp.ActionTypes = append(resp.ActionTypes, option(locale, string(a)))
	}
	c.JSON(http.StatusOK, resp)
}

func option(locale, value string) models.StatusOption {
	return models.StatusOption{Value: value, Label: models.Label(locale, value)}
}
