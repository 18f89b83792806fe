package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkpress/internal/authz"
)

// RequireAdmin gates a route group to administrators. Must run after
// RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "no role in context"})
			return
		}
		role, _ := v.(string)
		if !authz.IsAdmin(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			return
		}
		c.Next()
	}
}
