// metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the domain counters.
const (
	ResultOK        = "ok"
	ResultDuplicate = "duplicate"
	ResultExhausted = "exhausted"
	ResultRejected  = "rejected"
	ResultError     = "error"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aecac_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aecac_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	Redemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aecac_redemptions_total",
			Help: "Benefit redemption attempts by origin and result",
		},
		[]string{"origin", "result"},
	)

	Enrollments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aecac_enrollments_total",
			Help: "Training and event enrollment attempts by kind, origin and result",
		},
		[]string{"kind", "origin", "result"},
	)

	ExpiredDeactivated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aecac_expired_deactivated_total",
			Help: "Records switched to inactive because their date passed",
		},
		[]string{"collection"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aecac_emails_total",
			Help: "Outgoing emails by template and result",
		},
		[]string{"template", "result"},
	)

	LookupCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aecac_lookup_cache_total",
			Help: "CEP/CNPJ lookup cache hits and misses",
		},
		[]string{"kind", "result"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aecac_websocket_clients",
			Help: "Number of connected websocket clients",
		},
	)
)

// Middleware records one request count and duration per route template.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			HTTPRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			HTTPDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
