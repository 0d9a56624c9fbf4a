package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
)

// HTTPMetrics collects request metrics for one service.
type HTTPMetrics struct {
	ServiceName string
}

func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDurationHistogram)
	return &HTTPMetrics{ServiceName: serviceName}
}

// Middleware records a counter increment and duration observation per request.
func (m *HTTPMetrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		path := c.Route().Path
		statusStr := strconv.Itoa(status)

		RequestCounter.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
		RequestDurationHistogram.WithLabelValues(m.ServiceName, method, path, statusStr).
			Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler exposes the Prometheus scrape endpoint as a Fiber handler.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
