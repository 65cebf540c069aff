package handler

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/storefront/internal/database"
)

// pingTimeout bounds each dependency check on /api/health.
const pingTimeout = 2 * time.Second

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
    DB    *sql.DB
    Redis *redis.Client // optional; reported but never fatal
    Log   logrus.FieldLogger
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client, log logrus.FieldLogger) *HealthHandler {
    return &HealthHandler{DB: db, Redis: rdb, Log: log}
}

// Health handles GET /api/health.  The failure body never carries driver
// detail; the cause is logged instead.
func (h *HealthHandler) Health(c echo.Context) error {
    if err := database.Ping(c.Request().Context(), h.DB, pingTimeout); err != nil {
        logger(c, h.Log).WithError(err).Error("health: database ping failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"status": "unhealthy"})
    }
    resp := echo.Map{"status": "healthy", "database": "connected"}
    if h.Redis != nil {
        ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
        defer cancel()
        if err := h.Redis.Ping(ctx).Err(); err != nil {
            logger(c, h.Log).WithError(err).Warn("health: redis ping failed")
            resp["redis"] = "unavailable"
        } else {
            resp["redis"] = "connected"
        }
    }
    return c.JSON(http.StatusOK, resp)
}
