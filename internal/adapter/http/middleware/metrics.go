package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	orderAPIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_api_requests_total",
			Help: "HTTP requests served, by route template and status code",
		},
		[]string{"method", "route", "status"},
	)

	orderAPIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "order_api_request_duration_ms",
			Help: "HTTP request latency in ms; mutations include the inline event fan-out",
			// Reads should sit in the leftmost buckets; writes carry a Mongo
			// round-trip plus the broadcast.
			Buckets: []float64{2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"method", "route"},
	)
)

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Route template, not the raw URL, so /v1/orders/:id stays one series.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		elapsed := float64(time.Since(start).Milliseconds())

		orderAPIRequests.WithLabelValues(c.Request.Method, route, status).Inc()
		orderAPIDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed)
	}
}
