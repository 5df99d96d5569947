package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "user_id"

// RequireUser resolves the authenticated user identity set by the edge
// proxy and aborts the request when it is missing. Token validation itself
// happens upstream; this service only consumes the resolved identity.
func RequireUser(c *gin.Context) {
	id := c.GetHeader("X-User-ID")
	if _, err := uuid.Parse(id); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid user identity"})
		return
	}
	c.Set(userIDKey, id)
	c.Next()
}

// GetUserID returns the authenticated user id set by RequireUser.
func GetUserID(c *gin.Context) string {
	if val, ok := c.Get(userIDKey); ok {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}
