// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/kk-storefront/internal/cache"
	"github.com/javajoker/kk-storefront/internal/config"
	"github.com/javajoker/kk-storefront/internal/database"
	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/logging"
	"github.com/javajoker/kk-storefront/internal/middleware"
	"github.com/javajoker/kk-storefront/internal/observability"
	"github.com/javajoker/kk-storefront/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logging.Setup(cfg.Environment)

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitOTel(ctx, cfg.Environment, cfg.Telemetry)
	sentryEnabled, flushSentry := observability.InitSentry(cfg.Environment, cfg.Telemetry)
	defer flushSentry()

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}
		if err := database.SeedInitialData(db); err != nil {
			logrus.WithError(err).Warn("Failed to seed initial data")
		}
	}

	rdb := cache.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	deps, err := router.NewDependencies(cfg, db, rdb)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to build dependencies")
	}
	deps.SentryEnabled = sentryEnabled
	if deps.LLM == nil {
		logrus.Warn("LLM_API_KEY not set, AI chat and product generation are disabled")
	}

	middleware.StartSweeper(ctx, time.Minute, deps.Sweepers()...)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(deps)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("Failed to flush traces")
	}

	logrus.Info("Server exited")
}
