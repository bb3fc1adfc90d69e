package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"compliance-backend/internal/shared/auth"
	"compliance-backend/internal/shared/server/respond"
)

const (
	reviewerIDKey    = "reviewerId"
	reviewerEmailKey = "reviewerEmail"
	reviewerRoleKey  = "reviewerRole"
)

// Auth validates bearer JWTs and requires administrative authority on every
// route. Identity is stored in the request context for logging.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifyJWT(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		if claims.Role != auth.RoleAdmin {
			respond.Error(c, http.StatusForbidden, "forbidden", "administrative authority required", nil)
			return
		}

		c.Set(reviewerIDKey, claims.Sub)
		if claims.Email != "" {
			c.Set(reviewerEmailKey, claims.Email)
		}
		c.Set(reviewerRoleKey, claims.Role)
		c.Next()
	}
}

// ReviewerIDFromContext fetches the reviewer ID set by the auth middleware.
func ReviewerIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(reviewerIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
