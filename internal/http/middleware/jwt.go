package middleware

import (
	"net/http"
	"strings"

	"discovery_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates the request and stores user_id in the gin context.
// WebSocket upgrades may pass the token as a query parameter instead of the
// Authorization header.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
