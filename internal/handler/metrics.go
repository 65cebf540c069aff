package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/storefront/internal/metrics"
)

// MetricsHandler exposes the aggregator snapshot as JSON.
type MetricsHandler struct {
    Metrics *metrics.Aggregator
}

func NewMetricsHandler(m *metrics.Aggregator) *MetricsHandler {
    return &MetricsHandler{Metrics: m}
}

// Snapshot handles GET /api/metrics.
func (h *MetricsHandler) Snapshot(c echo.Context) error {
    return c.JSON(http.StatusOK, h.Metrics.Snapshot())
}
