package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	loggerCtxKey    = contextKey("logger")
	userIDKey       = contextKey("userID")
	requestIDCtxKey = contextKey("requestID")
)

// GetUserIDFromContext retrieves the authenticated caller ID.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetRequestIDFromCtx returns the request ID assigned by StructuredLoggingMiddleware.
func GetRequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}
