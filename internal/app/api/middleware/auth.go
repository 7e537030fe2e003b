package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pawcare/backend/internal/platform/firebase"
	"github.com/pawcare/backend/pkg/logctx"
	"github.com/pawcare/backend/pkg/response"
)

// FirebaseUIDKey is the gin.Context key holding the authenticated subject.
const FirebaseUIDKey = "firebase_uid"

// AuthMiddleware requires "Authorization: Bearer <Firebase ID token>".
// The verified uid is stored under FirebaseUIDKey and as user_id on the
// request context, and the request logger is re-scoped with it.
func AuthMiddleware(v firebase.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorMsg(response.APIResponseCodeUnauthorized, "authorization header missing"))
			return
		}

		id, err := v.Verify(c.Request.Context(), raw)
		if err != nil {
			if l := logctx.FromGin(c, nil); l != nil {
				l.Infow("auth_rejected", "error", err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorMsg(response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}

		c.Set(FirebaseUIDKey, id.UID)
		ctx := context.WithValue(c.Request.Context(), logctx.UserIDKey, id.UID)
		c.Request = c.Request.WithContext(ctx)
		if l := logctx.FromGin(c, nil); l != nil {
			setRequestLogger(c, l.With("user_id", id.UID))
		}

		c.Next()
	}
}

// FirebaseUID returns the subject set by AuthMiddleware, or "".
func FirebaseUID(c *gin.Context) string {
	return c.GetString(FirebaseUIDKey)
}
