package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DevAuth sets identity from headers without enforcing auth.
// - X-User-Id / X-User-Email when supplied; otherwise the handlers
//   fall back to the in-process session.
// - Used ONLY when Firebase is not configured (development/testing).
func DevAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
			c.Set("firebase_uid", uid)
		}
		if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
			c.Set("email", email)
		}

		c.Next()
	}
}
