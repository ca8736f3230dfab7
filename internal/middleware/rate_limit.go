// internal/middleware/rate_limit.go
package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/javajoker/kk-storefront/internal/utils"
)

const anonymousKey = "anonymous"

// Sweeper drops expired per-client state.
type Sweeper interface {
	Sweep(now time.Time)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-IP token bucket used as a global throttle.
type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
	idle     time.Duration
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
		idle:     3 * time.Minute,
	}
}

func (rl *RateLimiter) Sweep(now time.Time) {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getVisitor(clientKey(c))

		if !limiter.Allow() {
			utils.TooManyRequestsResponse(c, time.Duration(float64(time.Second)/float64(rl.rate)))
			c.Abort()
			return
		}

		c.Next()
	}
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// WindowLimiter is a fixed-window counter: at most limit requests per key
// within each window. State is process-local.
type WindowLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewWindowLimiter(limit int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow records a request for key. When rejected, the returned duration is
// the time left until the window resets.
func (l *WindowLimiter) Allow(key string) (bool, time.Duration) {
	if key == "" {
		key = anonymousKey
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		l.entries[key] = &windowEntry{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}

	entry.count++
	if entry.count <= l.limit {
		return true, 0
	}
	return false, entry.resetAt.Sub(now)
}

func (l *WindowLimiter) Sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entry := range l.entries {
		if now.After(entry.resetAt) {
			delete(l.entries, key)
		}
	}
}

// Len reports the number of tracked keys.
func (l *WindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *WindowLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ok, retryAfter := l.Allow(clientKey(c)); !ok {
			utils.TooManyRequestsResponse(c, retryAfter)
			c.Abort()
			return
		}
		c.Next()
	}
}

// StartSweeper runs Sweep on every sweeper each interval until ctx ends.
func StartSweeper(ctx context.Context, interval time.Duration, sweepers ...Sweeper) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				for _, s := range sweepers {
					s.Sweep(now)
				}
			}
		}
	}()
}

func clientKey(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return anonymousKey
}
