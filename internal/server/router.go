package server

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"telegram-crm-backend/internal/bot"
	"telegram-crm-backend/internal/config"
	"telegram-crm-backend/internal/handlers"
	"telegram-crm-backend/internal/mailer"
	"telegram-crm-backend/internal/metrics"
	"telegram-crm-backend/internal/middleware"
	"telegram-crm-backend/internal/services"
	"telegram-crm-backend/internal/store"
)

// Deps are the process-wide dependencies the router is built from.
type Deps struct {
	Config   *config.Config
	Store    *store.Store
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// Limiter may be nil, which disables rate limiting.
	Limiter middleware.RateLimiter
	// Mailer may be nil, which disables email sending.
	Mailer  mailer.Sender
	Version string
}

func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config

	history := services.NewHistoryService(d.Store, d.Metrics, d.Logger)
	projects := services.NewProjectService(d.Store, history, d.Logger)
	equipment := services.NewEquipmentService(d.Store, history, d.Logger)
	email := services.NewEmailService(d.Store, history, d.Mailer, cfg.EmailFrom, d.Logger)
	bridge := bot.NewBridge(projects, cfg.WebViewURL, cfg.TelegramBotUsername, d.Logger)

	projectsHandler := handlers.NewProjectsHandler(projects, d.Logger)
	equipmentHandler := handlers.NewEquipmentHandler(equipment, d.Logger)
	historyHandler := handlers.NewHistoryHandler(history, d.Logger)
	emailHandler := handlers.NewEmailHandler(email, d.Logger)
	healthHandler := handlers.NewHealthHandler(d.Store, d.Version)
	telegramHandler := handlers.NewTelegramHandler(bridge, cfg.TelegramWebhookSecret, d.Logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(d.Logger, d.Metrics))
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check and metrics (no auth)
	router.GET("/health", healthHandler.Health)
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Telegram webhook (no auth, uses the secret token header)
	router.POST("/telegram/webhook", telegramHandler.Webhook)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(cfg.APIJWTSecret))
	api.Use(middleware.RateLimit(d.Limiter, cfg.RateLimitPerMinute, time.Minute, d.Metrics))

	api.GET("/statuses", handlers.StatusesHandler)

	// Project routes
	api.GET("/projects", projectsHandler.ListProjects)
	api.POST("/projects", projectsHandler.CreateProject)
	api.GET("/projects/chat/:chat_id", projectsHandler.GetProjectByChatID)
	api.GET("/projects/:project_id", projectsHandler.GetProject)
	api.PUT("/projects/:project_id", projectsHandler.UpdateProject)
	api.DELETE("/projects/:project_id", projectsHandler.DeleteProject)
	api.PATCH("/projects/:project_id/status", projectsHandler.UpdateProjectStatus)

	project := api.Group("/projects/:project_id")

	// Equipment
	project.GET("/equipment", equipmentHandler.ListEquipment)
	project.POST("/equipment", equipmentHandler.AddEquipment)
	project.GET("/equipment/:equipment_id", equipmentHandler.GetEquipment)
	project.PUT("/equipment/:equipment_id", equipmentHandler.UpdateEquipment)
	project.DELETE("/equipment/:equipment_id", equipmentHandler.DeleteEquipment)
	project.PATCH("/equipment/:equipment_id/status", equipmentHandler.UpdateEquipmentStatus)

	// History
	project.GET("/history", historyHandler.ListHistory)
	project.POST("/history", historyHandler.AddHistory)
	project.DELETE("/history", historyHandler.PurgeHistory)
	project.GET("/history/type/:action_type", historyHandler.ListHistoryByType)
	project.GET("/history/:history_id", historyHandler.GetHistoryEntry)
	project.DELETE("/history/:history_id", historyHandler.DeleteHistoryEntry)

	// Email
	project.POST("/email/send", emailHandler.SendEmail)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}
