package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/storefront/internal/handler"
)

func TestRegisterRoutesTable(t *testing.T) {
	e := echo.New()
	RegisterRoutes(e, Handlers{
		Auth:      &handler.AuthHandler{},
		Catalog:   &handler.CatalogHandler{},
		Addresses: &handler.AddressHandler{},
		Orders:    &handler.OrderHandler{},
		Metrics:   &handler.MetricsHandler{},
		Health:    &handler.HealthHandler{},
	}, Options{
		AdminMobile: "9999999999",
		Prometheus:  http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }),
	})

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/auth",
		"GET /api/products",
		"POST /api/admin/products",
		"PUT /api/admin/products/:id",
		"DELETE /api/admin/products/:id",
		"GET /api/addresses/:mobile",
		"POST /api/address",
		"POST /api/order",
		"GET /api/my-orders/:mobile",
		"GET /api/admin/orders/:mobile",
		"PUT /api/admin/order/status",
		"GET /api/metrics",
		"GET /api/health",
		"GET /metrics",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	// admin routes reject before reaching a handler
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/products/1", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
