package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const adminKey = "admin"

// ValidateAPIKey guards the admin routes. An empty key disables them.
// Websocket clients may pass the key as ?api_key=.
func ValidateAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}
		if key == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
			c.Abort()
			return
		}
		c.Set(adminKey, true)
		c.Next()
	}
}

// IsAdmin reports whether the request passed the API key check or comes
// from a signed-in admin user.
func IsAdmin(c *gin.Context) bool {
	if c.GetBool(adminKey) {
		return true
	}
	u := CurrentUser(c)
	return u != nil && u.IsAdmin
}
