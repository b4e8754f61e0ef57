package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request with method, path, status and
// duration. Health checks and metrics scrapes stay quiet.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if path == "/healthz" || path == "/metrics" {
			return
		}
		log.Printf("[API] %s %s -> %d (%s)",
			c.Request.Method, path, c.Writer.Status(),
			time.Since(start).Truncate(time.Millisecond))
	}
}
