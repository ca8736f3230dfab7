// internal/cache/redis.go
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/kk-storefront/internal/config"
)

// NewRedisClient connects to the key-value store. It returns nil when no URL
// is configured or the server does not answer, and callers skip the
// features that depend on it.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	raw := strings.TrimSpace(cfg.URL)
	if raw == "" {
		return nil
	}

	var opts *redis.Options
	if strings.Contains(raw, "://") {
		parsed, err := redis.ParseURL(raw)
		if err != nil {
			logrus.WithError(err).Warn("Invalid REDIS_URL, key-value features disabled")
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: raw}
	}
	if cfg.Token != "" {
		opts.Password = cfg.Token
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("Redis unreachable, key-value features disabled")
		_ = client.Close()
		return nil
	}

	logrus.WithField("addr", opts.Addr).Info("Redis connection established")
	return client
}
