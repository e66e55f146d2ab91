package middleware

import (
	"strconv"
	"time"

	"closetrent/internal/metrics"

	"github.com/labstack/echo/v4"
)

// Metrics records request count and latency per route template. Errors are
// handed to echo's error handler first so the recorded status is the one
// the client sees.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			metrics.RequestsTotal.WithLabelValues(method, route, status).Inc()
			metrics.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
