package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Error codes surfaced in auth failure payloads so clients can distinguish
// them from generic failures.
const (
	ErrorTokenMissing  = 40101
	ErrorTokenMismatch = 40301
)

// BearerAuth guards trigger endpoints with a shared secret. A missing or
// malformed Authorization header is unauthorized, a present-but-wrong token
// is forbidden. An empty configured secret never matches, so an unconfigured
// deployment fails closed.
func BearerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": ErrorTokenMissing,
				"msg":  "missing bearer token",
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if secret == "" || token != secret {
			c.JSON(http.StatusForbidden, gin.H{
				"code": ErrorTokenMismatch,
				"msg":  "invalid token",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
