package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/tool"
)

const RequestIDHeader = "X-Request-ID"

// TraceMiddleware adds a trace ID to the request context.
// It reads X-Request-ID if provided by the client; otherwise generates a UUID.
// The trace ID is stored in both gin.Context and the request's context.Context.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(RequestIDHeader)
		if traceID == "" {
			traceID = tool.NewTraceID()
		}

		c.Set(logctx.TraceIDKey, traceID)
		ctx := context.WithValue(c.Request.Context(), logctx.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
