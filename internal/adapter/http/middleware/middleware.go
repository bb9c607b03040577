package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"todoapp/internal/adapter/telemetry"
	"todoapp/pkg/config"
	"todoapp/pkg/logger"
)

func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections()
		defer metrics.DecrementActiveConnections()

		c.Next()

		metrics.RecordRequest(
			c.Request.Method,
			c.FullPath(),
			c.Writer.Status(),
			time.Since(start),
		)

		if c.Request.Method != "GET" && c.Writer.Status() < 400 && strings.HasPrefix(c.FullPath(), "/todos") {
			metrics.RecordTodoOperation(c.Request.Method)
		}
	}
}

func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Ctx(c.Request.Context()).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// Setup attaches tracing, logging, metrics and (optionally) rate limiting in
// the order requests should pass through them.
func Setup(router *gin.Engine, serviceName string, metrics *telemetry.AppMetrics, log *logger.Logger, cfg *config.AppConfig) {
	router.Use(otelgin.Middleware(serviceName))

	if log != nil {
		router.Use(LoggingMiddleware(log))
	}

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	if cfg != nil && cfg.RateLimitEnabled {
		limiter := NewRateLimiter(cfg.RateLimitConfigs, metrics)
		router.Use(limiter.Middleware())
	}
}
