package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets conservative security headers for an API-only
// service. HSTS is skipped in development so plain-HTTP local setups
// keep working.
func SecurityHeaders(isDevelopment bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isDevelopment {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
