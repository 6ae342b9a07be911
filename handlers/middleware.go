package handlers

import (
	"errors"
	"net/http"
	"strings"

	"advocateasy-backend/service"

	"github.com/gin-gonic/gin"
)

const userEmailKey = "userEmail"

// RequireSession validates the bearer token on protected routes and
// stores the resolved user identity in the request context.
func RequireSession(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_TOKEN",
					"message": "Authorization bearer token required",
				},
			})
			return
		}

		email, err := authService.Validate(c.Request.Context(), token)
		if err != nil {
			code := "INVALID_SESSION"
			if errors.Is(err, service.ErrSessionExpired) {
				code = "SESSION_EXPIRED"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    code,
					"message": "Please log in again",
				},
			})
			return
		}

		c.Set(userEmailKey, email)
		c.Next()
	}
}

// sessionEmail returns the identity set by RequireSession
func sessionEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}
