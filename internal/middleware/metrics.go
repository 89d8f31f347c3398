package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "school_http_requests_total",
		Help: "HTTP requests processed, labelled by service, method, route and status.",
	},
	[]string{"service", "method", "route", "status"},
)

// Metrics counts every request under the given service label.  The
// route label uses the registered pattern, not the raw path, to keep
// cardinality bounded.
func Metrics(service string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			requestsTotal.WithLabelValues(service, c.Request().Method, c.Path(), strconv.Itoa(status)).Inc()
			return err
		}
	}
}

// MetricsHandler exposes the Prometheus registry, mounted at /metrics.
func MetricsHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
