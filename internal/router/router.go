package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront/internal/handler"
	"github.com/iliyamo/storefront/internal/middleware"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Addresses *handler.AddressHandler
	Orders    *handler.OrderHandler
	Metrics   *handler.MetricsHandler
	Health    *handler.HealthHandler
}

// Options carries the cross-cutting pieces applied around the handlers.
// Nil middleware values are skipped.
type Options struct {
	AdminMobile  string
	RateLimit    echo.MiddlewareFunc // applied to /api except health
	ProductCache echo.MiddlewareFunc // applied to GET /api/products
	Prometheus   http.Handler        // served on /metrics when set
}

// RegisterRoutes mounts the storefront API on e.
//
// Public:   POST /api/auth, GET /api/products, addresses, orders, metrics, health
// Admin:    /api/admin/... gated by the configured admin mobile
func RegisterRoutes(e *echo.Echo, h Handlers, opt Options) {
	// health stays outside the limiter so probes are never throttled
	e.GET("/api/health", h.Health.Health)
	if opt.Prometheus != nil {
		e.GET("/metrics", echo.WrapHandler(opt.Prometheus))
	}

	api := e.Group("/api")
	if opt.RateLimit != nil {
		api.Use(opt.RateLimit)
	}

	api.POST("/auth", h.Auth.Auth)

	productMW := []echo.MiddlewareFunc{h.Catalog.CountView}
	if opt.ProductCache != nil {
		productMW = append(productMW, opt.ProductCache)
	}
	api.GET("/products", h.Catalog.List, productMW...)

	api.GET("/addresses/:mobile", h.Addresses.List)
	api.POST("/address", h.Addresses.Create)

	api.POST("/order", h.Orders.Place)
	api.GET("/my-orders/:mobile", h.Orders.ListMine)

	api.GET("/metrics", h.Metrics.Snapshot)

	admin := api.Group("/admin", middleware.AdminOnly(opt.AdminMobile))
	admin.POST("/products", h.Catalog.Create)
	admin.PUT("/products/:id", h.Catalog.Update)
	admin.DELETE("/products/:id", h.Catalog.Delete)
	admin.GET("/orders/:mobile", h.Orders.ListAll)
	admin.PUT("/order/status", h.Orders.UpdateStatus)
}
