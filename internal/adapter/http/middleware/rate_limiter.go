package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"todoapp/internal/adapter/telemetry"
	"todoapp/pkg/config"
)

// RateLimiter enforces per-endpoint fixed-window budgets, keyed by client IP.
type RateLimiter struct {
	cache   *gocache.Cache
	configs map[string]config.RateLimitConfig
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(configs map[string]config.RateLimitConfig, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:   gocache.New(5*time.Minute, 10*time.Minute),
		configs: configs,
		metrics: metrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.Request.Method + " " + c.FullPath()

		cfg, limited := rl.configs[route]

		if !limited {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s|%s", route, c.ClientIP())

		if !rl.allow(key, cfg) {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.FullPath())
			}

			c.Header("Retry-After", fmt.Sprintf("%d", int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "rate limit exceeded",
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.FullPath())
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(key string, cfg config.RateLimitConfig) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()

	if cached, found := rl.cache.Get(key); found {
		entry := cached.(*rateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= cfg.Requests {
				return false
			}

			entry.Count++
			return true
		}
	}

	rl.cache.Set(key, &rateLimitEntry{
		Count:     1,
		ResetTime: now.Add(cfg.Window),
	}, cfg.Window)

	return true
}
