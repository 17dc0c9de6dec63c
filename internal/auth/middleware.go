package auth

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the acting user's id on every domain request.
const UserIDHeader = "X-Sharer-User-Id"

// UserRequired is a Gin middleware that reads the acting user from X-Sharer-User-Id.
// The header must hold a positive integer.
func UserRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing " + UserIDHeader + " header",
			})
			return
		}

		id, err := strconv.ParseInt(header, 10, 64)
		if err != nil || id < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid " + UserIDHeader + " header",
			})
			return
		}

		// Store user info into Gin context for later handlers.
		c.Set(userIDKey, id)

		c.Next()
	}
}
