// internal/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
)

type HealthHandler struct {
	db        *gorm.DB
	rdb       *redis.Client
	aiService *services.AIService
	version   string
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client, aiService *services.AIService, version string) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, aiService: aiService, version: version}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok"}

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	switch {
	case h.rdb == nil:
		checks["redis"] = "disabled"
	case h.rdb.Ping(ctx).Err() != nil:
		checks["redis"] = "unreachable"
	default:
		checks["redis"] = "ok"
	}

	// AI is optional; a missing key never degrades health.
	checks["ai"] = "disabled"
	if h.aiService.Available() {
		checks["ai"] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status":    state,
		"version":   h.version,
		"checks":    checks,
		"languages": i18n.GetSupportedLanguages(),
	})
}
