// internal/observability/sentry.go
package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/kk-storefront/internal/config"
)

// InitSentry enables error telemetry when a DSN is configured. The returned
// flush function is safe to call either way.
func InitSentry(environment string, cfg config.TelemetryConfig) (enabled bool, flush func()) {
	flush = func() {}
	if cfg.SentryDSN == "" {
		return false, flush
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      environment,
		Release:          cfg.Release,
		AttachStacktrace: true,
	})
	if err != nil {
		logrus.WithError(err).Warn("Sentry init failed, error telemetry disabled")
		return false, flush
	}

	logrus.Info("Sentry error telemetry enabled")
	return true, func() { sentry.Flush(2 * time.Second) }
}

// SentryMiddleware attaches a per-request hub to the request context and
// reports panics before handing them on to gin's recovery.
func SentryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.GetHubFromContext(c.Request.Context())
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}
		hub.Scope().SetRequest(c.Request)
		c.Request = c.Request.WithContext(sentry.SetHubOnContext(c.Request.Context(), hub))

		defer func() {
			if err := recover(); err != nil {
				hub.RecoverWithContext(c.Request.Context(), err)
				panic(err)
			}
		}()

		c.Next()
	}
}
