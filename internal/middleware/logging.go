package middleware

import (
	"log"
	"time"

	"eventease/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request and feeds the request metrics
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		monitoring.ObserveRequest(c.Request.Method, path, status, duration)
		log.Printf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, duration)
	}
}
