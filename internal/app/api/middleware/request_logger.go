package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawcare/backend/pkg/logctx"
)

// RequestLoggerMiddleware attaches a request-scoped logger enriched with
// trace_id to gin.Context and request context.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetString(logctx.TraceIDKey)
		setRequestLogger(c, base.With("trace_id", traceID))

		// mirror trace id to response header when available
		if traceID != "" {
			c.Writer.Header().Set(RequestIDHeader, traceID)
		}

		c.Next()
	}
}

func setRequestLogger(c *gin.Context, l *zap.SugaredLogger) {
	c.Set(logctx.LoggerKey, l)
	ctx := context.WithValue(c.Request.Context(), logctx.LoggerKey, l)
	c.Request = c.Request.WithContext(ctx)
}
