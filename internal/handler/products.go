package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/storefront/internal/metrics"
    "github.com/iliyamo/storefront/internal/model"
    "github.com/iliyamo/storefront/internal/repository"
)

// CatalogHandler serves the public product list and the admin catalog
// endpoints.  Admin routes are gated by middleware.AdminOnly.
type CatalogHandler struct {
    Products *repository.ProductRepo
    Metrics  *metrics.Aggregator
    Cache    CacheInvalidator // may be nil
    Log      logrus.FieldLogger
}

func NewCatalogHandler(p *repository.ProductRepo, m *metrics.Aggregator, cache CacheInvalidator, log logrus.FieldLogger) *CatalogHandler {
    return &CatalogHandler{Products: p, Metrics: m, Cache: cache, Log: log}
}

// productReq uses pointers so a missing field can be told apart from a
// zero value.
type productReq struct {
    Name     *string          `json:"name"`
    Quantity *int             `json:"quantity"`
    Price    *decimal.Decimal `json:"price"`
    Unit     *string          `json:"unit"`
}

func (r productReq) toProduct() (model.Product, bool) {
    if r.Name == nil || r.Quantity == nil || r.Price == nil || r.Unit == nil {
        return model.Product{}, false
    }
    p := model.Product{
        Name:     strings.TrimSpace(*r.Name),
        Quantity: *r.Quantity,
        Price:    *r.Price,
        Unit:     strings.TrimSpace(*r.Unit),
    }
    if p.Name == "" || p.Unit == "" || p.Quantity < 0 || p.Price.IsNegative() || !model.IsMoney(p.Price) {
        return model.Product{}, false
    }
    return p, true
}

// List handles GET /api/products.  Views are counted by CountView.
func (h *CatalogHandler) List(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()

    products, err := h.Products.List(ctx)
    if err != nil {
        logger(c, h.Log).WithError(err).Error("list products failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, products)
}

// CountView increments products_viewed for every successful listing.  It
// is mounted outside the response cache so cache hits are counted too.
func (h *CatalogHandler) CountView(next echo.HandlerFunc) echo.HandlerFunc {
    return func(c echo.Context) error {
        err := next(c)
        if err == nil && c.Response().Status == http.StatusOK {
            h.Metrics.Inc(metrics.ProductsViewed)
        }
        return err
    }
}

// Create handles POST /api/admin/products.
func (h *CatalogHandler) Create(c echo.Context) error {
    var req productReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    p, ok := req.toProduct()
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, quantity, price and unit are required"})
    }

    ctx, cancel := requestCtx(c)
    defer cancel()

    id, err := h.Products.Create(ctx, p)
    if err != nil {
        logger(c, h.Log).WithError(err).Error("create product failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add product"})
    }
    h.afterWrite(c, metrics.ProductsAdded)
    return c.JSON(http.StatusCreated, echo.Map{"message": "Product added", "id": id})
}

// Update handles PUT /api/admin/products/:id.
func (h *CatalogHandler) Update(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }
    var req productReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    p, ok := req.toProduct()
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, quantity, price and unit are required"})
    }

    ctx, cancel := requestCtx(c)
    defer cancel()

    if err := h.Products.Update(ctx, id, p); err != nil {
        if errors.Is(err, repository.ErrProductNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
        }
        logger(c, h.Log).WithError(err).WithField("product_id", id).Error("update product failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update product"})
    }
    h.afterWrite(c, metrics.ProductsUpdated)
    return c.JSON(http.StatusOK, echo.Map{"message": "Product updated"})
}

// Delete handles DELETE /api/admin/products/:id.
func (h *CatalogHandler) Delete(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
    }

    ctx, cancel := requestCtx(c)
    defer cancel()

    if err := h.Products.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrProductNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
        }
        logger(c, h.Log).WithError(err).WithField("product_id", id).Error("delete product failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete product"})
    }
    h.afterWrite(c, metrics.ProductsDeleted)
    return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}

// afterWrite counts a catalog change and purges the cached listing.
func (h *CatalogHandler) afterWrite(c echo.Context, counter string) {
    h.Metrics.Inc(counter)
    if h.Cache == nil {
        return
    }
    if err := h.Cache.Invalidate(c.Request().Context()); err != nil {
        logger(c, h.Log).WithError(err).Warn("product cache invalidation failed")
    }
}
