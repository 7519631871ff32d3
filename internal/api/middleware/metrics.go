package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/superbett/bancas-api/internal/metrics"
)

// Instrument records request count and latency labelled by route template.
func Instrument() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		metrics.HTTPInFlight.Inc()
		start := time.Now()

		ctx.Next()

		metrics.HTTPInFlight.Dec()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(ctx.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(ctx.Request.Method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(ctx.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}
