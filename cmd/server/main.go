// @title           Telegram CRM Backend API
// @version         1.0.0
// @description     Backend API for a Telegram-driven CRM. Each forum topic of a group maps to a project with equipment and an append-only history.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"telegram-crm-backend/docs"
	"telegram-crm-backend/internal/config"
	"telegram-crm-backend/internal/database"
	"telegram-crm-backend/internal/logger"
	"telegram-crm-backend/internal/mailer"
	"telegram-crm-backend/internal/metrics"
	"telegram-crm-backend/internal/middleware"
	"telegram-crm-backend/internal/server"
	"telegram-crm-backend/internal/store"
)

const serviceName = "telegram-crm-backend"

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New(serviceName, cfg.LogLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if baseURL, err := url.Parse(cfg.BaseURL); err == nil && baseURL.Host != "" {
		docs.SwaggerInfo.Host = baseURL.Host
		if baseURL.Scheme == "https" {
			docs.SwaggerInfo.Schemes = []string{"https", "http"}
		} else {
			docs.SwaggerInfo.Schemes = []string{"http", "https"}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	st := store.New(db)
	defer st.Close()

	migrator, err := database.NewMigrator(db, cfg.DatabaseDriver, log)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info("migrations completed", "driver", cfg.DatabaseDriver)

	limiter := newRateLimiter(ctx, cfg, log)
	if limiter != nil {
		defer limiter.Close()
	}

	var sender mailer.Sender
	if cfg.EmailEnabled {
		sender = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	} else {
		log.Info("email sending disabled")
	}

	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Store:    st,
		Logger:   log,
		Metrics:  metrics.New(prometheus.DefaultRegisterer),
		Gatherer: prometheus.DefaultGatherer,
		Limiter:  limiter,
		Mailer:   sender,
		Version:  version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("server stopped")
		return nil
	case err := <-errorCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

// newRateLimiter prefers redis when configured and falls back to process
// memory when redis is unreachable.
func newRateLimiter(ctx context.Context, cfg *config.Config, log *slog.Logger) middleware.RateLimiter {
	if cfg.RateLimitPerMinute <= 0 {
		return nil
	}
	if cfg.RedisURL != "" {
		client, err := middleware.NewRedisClient(ctx, cfg.RedisURL)
		if err == nil {
			log.Info("rate limiter using redis")
			return middleware.NewRedisRateLimiter(client, log)
		}
		log.Warn("redis unavailable, using in-memory rate limiter", "error", err)
	}
	return middleware.NewMemoryRateLimiter()
}
