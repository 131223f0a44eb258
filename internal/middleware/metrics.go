package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duygu-analizi/sentiment-api/internal/telemetry"
)

// Metrics records request counts and latency by matched route
func Metrics(m *telemetry.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
