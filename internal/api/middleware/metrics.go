package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"geocell/internal/logger"
	"geocell/internal/metrics"
)

// Observe records per-request counters and duration, and logs server-side
// failures. The route label uses the matched route template, not the raw
// path, to keep cardinality bounded.
func Observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metrics.RequestDurationMs.Observe(float64(time.Since(start).Milliseconds()))

		if status >= http.StatusInternalServerError {
			logger.L().Error("request failed",
				"route", route,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
	}
}
