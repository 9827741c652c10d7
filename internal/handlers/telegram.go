package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"telegram-crm-backend/internal/bot"
	"telegram-crm-backend/internal/models"
)

const telegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

type TelegramHandler struct {
	bridge *bot.Bridge
	secret string
	logger *slog.Logger
}

// NewTelegramHandler returns the bot webhook. When secret is set, updates
// without a matching secret token header are rejected.
func NewTelegramHandler(bridge *bot.Bridge, secret string, logger *slog.Logger) *TelegramHandler {
	return &TelegramHandler{bridge: bridge, secret: secret, logger: logger}
}

// Webhook godoc
// @Summary     Telegram webhook
// @Description Receives bot updates. A reply, when any, is returned as a sendMessage call in the response body.
// @Tags        telegram
// @Accept      json
// @Produce     json
// @Param       update body     bot.Update true "Telegram update"
// @Success     200    {object} bot.Reply
// @Failure     401    {object} models.ErrorResponse
// @Router      /telegram/webhook [post]
func (h *TelegramHandler) Webhook(c *gin.Context) {
	if h.secret != "" {
		got := c.GetHeader(telegramSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid webhook secret"})
			return
		}
	}

	var update bot.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		// Telegram retries non-2xx answers; a malformed update is dropped.
		h.logger.Warn("ignoring malformed telegram update", "error", err)
		c.Status(http.StatusOK)
		return
	}

	reply := h.bridge.Handle(c.Request.Context(), update)
	if reply == nil {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, reply)
}
