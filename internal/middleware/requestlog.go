package middleware

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/storefront/internal/metrics"
)

const loggerKey = "logger"

// RequestLogger tags each request with an id (the incoming X-Request-ID or
// a new uuid), logs a Request line and a Response line carrying status and
// duration, and counts api_requests / api_errors.
func RequestLogger(log logrus.FieldLogger, agg *metrics.Aggregator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			entry := log.WithFields(logrus.Fields{
				"request_id": rid,
				"method":     req.Method,
				"path":       req.URL.Path,
				"remote_ip":  c.RealIP(),
			})
			c.Set(loggerKey, entry)
			entry.Infof("Request: %s %s", req.Method, req.URL.Path)

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)
			status := c.Response().Status

			agg.Inc(metrics.APIRequests)
			done := entry.WithFields(logrus.Fields{"status": status, "latency_ms": elapsed.Milliseconds()})
			msg := fmt.Sprintf("Response: %s %s Status: %d Time: %.3fs", req.Method, req.URL.Path, status, elapsed.Seconds())
			if status >= 500 {
				agg.Inc(metrics.APIErrors)
				done.Error(msg)
			} else {
				done.Info(msg)
			}
			return nil
		}
	}
}

// Logger returns the request-scoped entry set by RequestLogger, or fallback
// when the middleware did not run.
func Logger(c echo.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if e, ok := c.Get(loggerKey).(*logrus.Entry); ok {
		return e
	}
	return fallback
}
