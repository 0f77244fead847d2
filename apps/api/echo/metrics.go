package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vidyalaya",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vidyalaya",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// metricsMiddleware records every request under its route pattern, not its raw path.
func metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			if err != nil {
				// let the error handler write the response so the status is known
				ctx.Error(err)
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(ctx.Response().Status)
			httpRequests.WithLabelValues(ctx.Request().Method, route, status).Inc()
			httpDuration.WithLabelValues(ctx.Request().Method, route, status).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
