// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/models"
	"github.com/javajoker/kk-storefront/internal/utils"
)

const maxAuditBody = 64 << 10

// Beacon and chat traffic is high volume and not an admin action.
var auditSkipPrefixes = []string{
	"/api/analytics/",
	"/api/chat",
	"/api/labels/",
}

func AuditLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !shouldAudit(c.Request) {
			c.Next()
			return
		}

		// Peek at the request body; uploads are recorded without their payload.
		// The handler always sees the full stream.
		var requestBody []byte
		truncated := false
		if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/json") {
			requestBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBody+1))
			c.Request.Body = readCloser{
				Reader: io.MultiReader(bytes.NewReader(requestBody), c.Request.Body),
				Closer: c.Request.Body,
			}
			if len(requestBody) > maxAuditBody {
				truncated = true
			}
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		var requestData map[string]interface{}
		switch {
		case truncated:
			requestData = map[string]interface{}{"truncated": true, "size_over": maxAuditBody}
		case len(requestBody) > 0:
			_ = json.Unmarshal(requestBody, &requestData)
		}

		auditLog := &models.AuditLog{
			Action:       c.Request.Method + " " + c.FullPath(),
			ResourceType: extractResourceType(c.Request.URL.Path),
			ResourceID:   extractResourceID(c),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			NewValues:    models.JSONB(requestData),
		}
		if identity, ok := utils.GetIdentity(c); ok {
			auditLog.UserID = identity.UserID
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.WithContext(ctx).Create(auditLog).Error; err != nil {
			logrus.WithError(err).Error("Failed to create audit log")
		}
	}
}

type readCloser struct {
	io.Reader
	io.Closer
}

func shouldAudit(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	for _, prefix := range auditSkipPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return false
		}
	}
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 0 && parts[0] == "api" {
		parts = parts[1:]
	}
	if len(parts) >= 2 && parts[0] == "admin" {
		return parts[1]
	}
	if len(parts) >= 1 && parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

func extractResourceID(c *gin.Context) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	if slug := c.Param("slug"); slug != "" {
		return slug
	}
	parts := strings.Split(strings.Trim(c.Request.URL.Path, "/"), "/")
	for _, part := range parts {
		if _, err := uuid.Parse(part); err == nil {
			return part
		}
	}
	return ""
}

// RequestLogger logs one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}
		if identity, ok := utils.GetIdentity(c); ok {
			fields["user_id"] = identity.UserID
		}

		entry := logrus.WithFields(fields)
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Warn("Request processed")
		case c.Request.URL.Path == "/api/health":
			entry.Debug("Request processed")
		default:
			entry.Info("Request processed")
		}
	}
}
