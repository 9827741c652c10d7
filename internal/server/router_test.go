package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-crm-backend/internal/bot"
	"telegram-crm-backend/internal/config"
	"telegram-crm-backend/internal/logger"
	"telegram-crm-backend/internal/mailer"
	"telegram-crm-backend/internal/metrics"
	"telegram-crm-backend/internal/middleware"
	"telegram-crm-backend/internal/models"
	"telegram-crm-backend/internal/server"
	"telegram-crm-backend/internal/testutil"
)

type stubSender struct {
	sent []mailer.Message
}

func (s *stubSender) Send(_ context.Context, msg mailer.Message) (string, error) {
	s.sent = append(s.sent, msg)
	return "<stub@example.com>", nil
}

type testServer struct {
	router *gin.Engine
	sender *stubSender
	token  string
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:           "test",
		BaseURL:               "http://localhost:8080",
		DatabaseDriver:        "sqlite",
		DatabaseURL:           ":memory:",
		CORSAllowedOrigins:    []string{"*"},
		WebViewURL:            "https://crm.example.com/app",
		TelegramWebhookSecret: "hook-secret",
		TelegramBotUsername:   "crm_bot",
		EmailFrom:             "crm@example.com",
	}
}

func newTestServer(t *testing.T, mutate func(*config.Config, *server.Deps)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	sender := &stubSender{}
	cfg := testConfig()
	deps := server.Deps{
		Config:   cfg,
		Store:    testutil.NewStore(t).WithClock(testutil.NewClock().Now),
		Logger:   logger.Discard(),
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Mailer:   sender,
		Version:  "test",
	}
	if mutate != nil {
		mutate(cfg, &deps)
	}
	ts := &testServer{router: server.NewRouter(deps), sender: sender}
	if cfg.APIJWTSecret != "" {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "operator"}).
			SignedString([]byte(cfg.APIJWTSecret))
		require.NoError(t, err)
		ts.token = tok
	}
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestEndToEnd(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, "POST", "/api/projects", gin.H{"title": "Kitchen Install", "chatId": "1000_55"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode[models.ProjectResponse](t, w)
	assert.Equal(t, "New", project.Status)
	assert.Equal(t, "1000_55", project.ChatID)

	w = ts.do(t, "POST", "/api/projects", gin.H{"title": "Kitchen Install", "chatId": "1000_55"})
	require.Equal(t, http.StatusConflict, w.Code)
	conflict := decode[models.ConflictResponse](t, w)
	assert.Equal(t, project.ID, conflict.Project.ID)

	w = ts.do(t, "PATCH", fmt.Sprintf("/api/projects/%d/status", project.ID), gin.H{"status": "Installation"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	change := decode[models.ProjectStatusResponse](t, w)
	assert.True(t, change.Success)
	assert.Equal(t, "New", change.OldStatus)
	assert.Equal(t, "Installation", change.UpdatedStatus)

	w = ts.do(t, "GET", fmt.Sprintf("/api/projects/%d/history", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]models.HistoryResponse](t, w)
	require.Len(t, history, 2)
	assert.Equal(t, "status_change", history[0].ActionType)
	assert.Equal(t, "create", history[1].ActionType)

	w = ts.do(t, "POST", fmt.Sprintf("/api/projects/%d/equipment", project.ID), gin.H{"model": "Router X", "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[models.EquipmentResponse](t, w)
	assert.Equal(t, "Ordered", item.ItemStatus)
	assert.Equal(t, 2, item.Quantity)

	w = ts.do(t, "POST", "/api/projects", gin.H{"title": "Other", "chatId": "1000_56"})
	require.Equal(t, http.StatusCreated, w.Code)
	other := decode[models.ProjectResponse](t, w)

	w = ts.do(t, "DELETE", fmt.Sprintf("/api/projects/%d/equipment/%d", other.ID, item.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, "DELETE", fmt.Sprintf("/api/projects/%d", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "GET", fmt.Sprintf("/api/projects/%d", project.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The equipment row outlives its project.
	w = ts.do(t, "GET", fmt.Sprintf("/api/projects/%d/equipment/%d", project.ID, item.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Router X", decode[models.EquipmentResponse](t, w).Model)
}

func TestProjectDetailAndLookup(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, "POST", "/api/projects", gin.H{"title": "Kitchen", "chatId": "-1001_7", "status": "Доставлено"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode[models.ProjectResponse](t, w)
	assert.Equal(t, "Delivered", project.Status)

	w = ts.do(t, "GET", "/api/projects/chat/-1001_7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, project.ID, decode[models.ProjectResponse](t, w).ID)

	w = ts.do(t, "GET", "/api/projects/chat/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, "GET", fmt.Sprintf("/api/projects/%d", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[models.ProjectDetailResponse](t, w)
	assert.Equal(t, project.ID, detail.Project.ID)
	assert.Empty(t, detail.EquipmentList)
	assert.Len(t, detail.History, 1)
	assert.Contains(t, w.Body.String(), `"equipmentList":[]`)

	w = ts.do(t, "GET", "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.ProjectResponse](t, w), 1)
}

func TestProjectValidationAndErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, "POST", "/api/projects", gin.H{"title": "", "chatId": "1_1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "POST", "/api/projects", gin.H{"title": "A", "chatId": "1_1", "status": "Bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "GET", "/api/projects/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "PATCH", "/api/projects/999/status", gin.H{"status": "Closed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "project not found", decode[models.ErrorResponse](t, w).Error)

	w = ts.do(t, "PUT", "/api/projects/999", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, "DELETE", "/api/projects/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProject(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, "POST", "/api/projects", gin.H{"title": "Kitchen", "chatId": "1_1"})
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[models.ProjectResponse](t, w)

	w = ts.do(t, "PUT", fmt.Sprintf("/api/projects/%d", project.ID), gin.H{"status": "Closed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.ProjectResponse](t, w)
	assert.Equal(t, "Kitchen", updated.Title)
	assert.Equal(t, "Closed", updated.Status)
}

func TestEquipmentRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, "POST", "/api/projects", gin.H{"title": "Kitchen", "chatId": "1_1"})
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[models.ProjectResponse](t, w)
	base := fmt.Sprintf("/api/projects/%d/equipment", project.ID)

	w = ts.do(t, "POST", base, gin.H{"quantity": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "POST", "/api/projects/999/equipment", gin.H{"model": "Router"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, "POST", base, gin.H{"model": "Router", "expectedDate": "2026-11-01", "notes": "rack 2"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[models.EquipmentResponse](t, w)
	require.NotNil(t, item.ExpectedDate)
	assert.Equal(t, "2026-11-01", *item.ExpectedDate)

	w = ts.do(t, "PUT", fmt.Sprintf("%s/%d", base, item.ID), gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.EquipmentResponse](t, w)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, "Router", updated.Model)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "rack 2", *updated.Notes)

	w = ts.do(t, "PATCH", fmt.Sprintf("%s/%d/status", base, item.ID), gin.H{"status": "Installed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	change := decode[models.EquipmentStatusResponse](t, w)
	assert.Equal(t, "Ordered", change.OldStatus)
	assert.Equal(t, "Installed", change.UpdatedStatus)

	w = ts.do(t, "PATCH", fmt.Sprintf("%s/%d/status", base, item.ID), gin.H{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "GET", base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.EquipmentResponse](t, w), 1)

	w = ts.do(t, "DELETE", fmt.Sprintf("%s/%d", base, item.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "GET", fmt.Sprintf("%s/%d", base, item.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, "GET", fmt.Sprintf("/api/projects/%d/history/type/equipment_deleted", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]models.HistoryResponse](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, "Equipment deleted: Router", entries[0].Message)
}

func TestHistoryRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, "POST", "/api/projects", gin.H{"title": "One", "chatId": "1_1"})
	require.Equal(t, http.StatusCreated, w.Code)
	p1 := decode[models.ProjectResponse](t, w)
	w = ts.do(t, "POST", "/api/projects", gin.H{"title": "Two", "chatId": "1_2"})
	require.Equal(t, http.StatusCreated, w.Code)
	p2 := decode[models.ProjectResponse](t, w)

	w = ts.do(t, "POST", fmt.Sprintf("/api/projects/%d/history", p1.ID), gin.H{"actionType": "note", "message": "called"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode[models.HistoryResponse](t, w)

	w = ts.do(t, "POST", fmt.Sprintf("/api/projects/%d/history", p1.ID), gin.H{"actionType": "note"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "GET", fmt.Sprintf("/api/projects/%d/history/%d", p2.ID, entry.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, "GET", fmt.Sprintf("/api/projects/%d/history/%d", p1.ID, entry.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "called", decode[models.HistoryResponse](t, w).Message)

	w = ts.do(t, "DELETE", fmt.Sprintf("/api/projects/%d/history/%d", p1.ID, entry.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, "GET", "/api/projects/999/history", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, "DELETE", fmt.Sprintf("/api/projects/%d/history", p1.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	purge := decode[models.HistoryPurgeResponse](t, w)
	assert.True(t, purge.Success)
	assert.Equal(t, int64(1), purge.Deleted)
}

func TestSendEmailRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, "POST", "/api/projects", gin.H{"title": "Kitchen", "chatId": "1_1"})
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[models.ProjectResponse](t, w)

	w = ts.do(t, "POST", fmt.Sprintf("/api/projects/%d/email/send", project.ID),
		gin.H{"to": "client@example.com", "subject": "Invoice", "body": "Hi\nthere"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.EmailResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "<stub@example.com>", resp.Info)
	require.Len(t, ts.sender.sent, 1)
	assert.Equal(t, "[Project: Kitchen] Invoice", ts.sender.sent[0].Subject)

	w = ts.do(t, "POST", fmt.Sprintf("/api/projects/%d/email/send", project.ID), gin.H{"to": "client@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendEmailDisabled(t *testing.T) {
	ts := newTestServer(t, func(_ *config.Config, d *server.Deps) { d.Mailer = nil })

	w := ts.do(t, "POST", "/api/projects", gin.H{"title": "Kitchen", "chatId": "1_1"})
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[models.ProjectResponse](t, w)

	w = ts.do(t, "POST", fmt.Sprintf("/api/projects/%d/email/send", project.ID),
		gin.H{"to": "client@example.com", "subject": "s", "body": "b"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "disabled")
}

func TestStatuses(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, "GET", "/api/statuses?locale=ru", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.StatusesResponse](t, w)
	assert.Equal(t, "ru", resp.Locale)
	require.Len(t, resp.Project, 5)
	assert.Equal(t, "New", resp.Project[0].Value)
	assert.Equal(t, "Новый", resp.Project[0].Label)
	assert.Len(t, resp.Equipment, 5)

	w = ts.do(t, "GET", "/api/statuses?locale=fr", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "en", decode[models.StatusesResponse](t, w).Locale)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[models.HealthResponse](t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "up", health.DB)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	ts.do(t, "GET", "/api/projects", nil)

	w = ts.do(t, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `crm_http_requests_total{method="GET",route="/api/projects",status="200"} 1`)
}

func TestAuthRequiredWhenSecretSet(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config, _ *server.Deps) { cfg.APIJWTSecret = "api-secret" })

	w := ts.do(t, "GET", "/api/projects", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	ts.token = ""
	w = ts.do(t, "GET", "/api/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitedAPI(t *testing.T) {
	limiter := middleware.NewMemoryRateLimiter()
	t.Cleanup(limiter.Close)
	ts := newTestServer(t, func(cfg *config.Config, d *server.Deps) {
		cfg.RateLimitPerMinute = 2
		d.Limiter = limiter
	})

	assert.Equal(t, http.StatusOK, ts.do(t, "GET", "/api/projects", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, "GET", "/api/projects", nil).Code)
	w := ts.do(t, "GET", "/api/projects", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func webhook(t *testing.T, ts *testServer, secret string, update bot.Update) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(update)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", "/telegram/webhook", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", secret)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestTelegramWebhook(t *testing.T) {
	ts := newTestServer(t, nil)
	update := bot.Update{UpdateID: 1, Message: &bot.Message{
		MessageThreadID:   55,
		Chat:              bot.Chat{ID: 1000, Type: "supergroup"},
		ForumTopicCreated: &bot.ForumTopicCreated{Name: "Kitchen Install"},
	}}

	w := webhook(t, ts, "wrong", update)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = webhook(t, ts, "hook-secret", update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reply := decode[bot.Reply](t, w)
	assert.Equal(t, "sendMessage", reply.Method)
	assert.Equal(t, int64(55), reply.MessageThreadID)
	assert.Equal(t, `Project created: "Kitchen Install"`, reply.Text)

	w = ts.do(t, "GET", "/api/projects/chat/1000_55", nil)
	require.Equal(t, http.StatusOK, w.Code)
	project := decode[models.ProjectResponse](t, w)
	assert.Equal(t, "Kitchen Install", project.Title)

	w = webhook(t, ts, "hook-secret", update)
	require.Equal(t, http.StatusOK, w.Code)
	again := decode[bot.Reply](t, w)
	assert.Equal(t, `Project "Kitchen Install" already exists.`, again.Text)
	assert.True(t, strings.Contains(again.ReplyMarkup.InlineKeyboard[0][0].URL, fmt.Sprintf("projectId=%d", project.ID)))

	w = webhook(t, ts, "hook-secret", bot.Update{UpdateID: 2, Message: &bot.Message{Text: "hi", Chat: bot.Chat{ID: 1000}}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}
