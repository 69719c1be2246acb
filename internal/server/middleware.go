package server

import (
	"strconv"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/metrics"
	"live-auction/services/bidding/helpers"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if user, ok := helpers.CurrentUser(c); ok {
		fields["user_id"] = user.UserID
	}
	utils.Info("HTTP Request", fields)
}

// PrometheusMiddleware records request metrics
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// IdentityMiddleware stores the gateway-supplied identity, if any, on the context
func IdentityMiddleware(c *gin.Context) {
	if user, ok := helpers.UserFromHeaders(c.Request); ok {
		helpers.SetCurrentUser(c, user)
	}
	c.Next()
}

// RequireIdentity rejects requests without an identity
func RequireIdentity(c *gin.Context) {
	if _, ok := helpers.CurrentUser(c); !ok {
		helpers.RespondError(c, "RequireIdentity", biddingerrors.ErrUnauthenticated, map[string]any{"path": c.Request.URL.Path})
		c.Abort()
		return
	}
	c.Next()
}
