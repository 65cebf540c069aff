package handler

import (
    "context"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/storefront/internal/middleware"
)

// dbTimeout bounds every request's database work.
const dbTimeout = 5 * time.Second

// CacheInvalidator drops cached product listings after a catalog write.
type CacheInvalidator interface {
    Invalidate(ctx context.Context) error
}

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// logger returns the request-scoped entry, falling back to base and then
// to the standard logrus logger.
func logger(c echo.Context, base logrus.FieldLogger) logrus.FieldLogger {
    if base == nil {
        base = logrus.StandardLogger()
    }
    return middleware.Logger(c, base)
}
