package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders adds security headers to every response.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https:; "+
				"connect-src 'self' ws: wss:")
		// The call screen asks for these from our own origin only.
		h.Set("Permissions-Policy", "camera=(self), microphone=(self), clipboard-write=(self), geolocation=()")
		c.Next()
	}
}
