package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/auth"
	"quickai-backend/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	userPlanKey = "userPlan"
)

// Auth validates the bearer JWT and stores caller identity in context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Unauthorized(c, "Authentication required. Please login.")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Unauthorized(c, "Authentication required. Please login.")
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Unauthorized(c, "Authentication failed")
			return
		}

		c.Set(userIDKey, claims.Sub)
		c.Set(userPlanKey, claims.Plan)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// PlanFromContext fetches the raw plan claim set by the auth middleware.
func PlanFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userPlanKey)
	if plan, ok := val.(string); ok {
		return plan
	}
	return ""
}
