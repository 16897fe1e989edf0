package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/colposcopia/colpo-api/internal/config"
	"github.com/colposcopia/colpo-api/internal/service"
	"github.com/colposcopia/colpo-api/pkg/auth"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestID tags every request with an identifier, honoring one supplied by
// the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Request = c.Request.WithContext(service.ContextWithRequestID(c.Request.Context(), id))
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// AccessLog emits one structured line per request.
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// Metrics records request counters and latency per route.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		collector.InFlightGauge.Inc()
		start := time.Now()
		c.Next()
		collector.InFlightGauge.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		collector.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		collector.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

// CORS applies the configured cross-origin policy.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	conf := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: cfg.AllowedMethods,
		AllowHeaders: cfg.AllowedHeaders,
		MaxAge:       cfg.MaxAge,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		conf.AllowAllOrigins = true
		conf.AllowOrigins = nil
	}
	return cors.New(conf)
}

// Authenticate validates the bearer token on mutating routes. When auth is
// disabled by configuration the middleware passes everything through, which
// matches a single-operator deployment on a trusted network.
func Authenticate(cfg config.AuthConfig, jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}
