package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/telemetry"
)

// Fail sends a failure envelope with HTTP 200. Transport status stays
// 200 so the envelope is the only failure signal.
func Fail(c *gin.Context, message string) {
	failWithStatus(c, http.StatusOK, message)
}

// Unauthorized sends a failure envelope with HTTP 401. Reserved for
// requests whose caller identity could not be established at all.
func Unauthorized(c *gin.Context, message string) {
	failWithStatus(c, http.StatusUnauthorized, message)
}

// Internal sends a failure envelope with HTTP 500 for unexpected errors.
func Internal(c *gin.Context, message string) {
	failWithStatus(c, http.StatusInternalServerError, message)
}

func failWithStatus(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.fail", fields)

	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}
