package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/storefront/internal/metrics"
    "github.com/iliyamo/storefront/internal/model"
    "github.com/iliyamo/storefront/internal/repository"
    "github.com/iliyamo/storefront/internal/utils"
)

// AddressHandler exposes a customer's address book.
type AddressHandler struct {
    Users     *repository.UserRepo
    Addresses *repository.AddressRepo
    Metrics   *metrics.Aggregator
    Log       logrus.FieldLogger
}

func NewAddressHandler(u *repository.UserRepo, a *repository.AddressRepo, m *metrics.Aggregator, log logrus.FieldLogger) *AddressHandler {
    return &AddressHandler{Users: u, Addresses: a, Metrics: m, Log: log}
}

type addressReq struct {
    Mobile      string  `json:"mobile"`
    Name        *string `json:"name"`
    AddressLine string  `json:"address_line"`
    City        *string `json:"city"`
    State       *string `json:"state"`
    Pincode     *string `json:"pincode"`
}

// List handles GET /api/addresses/:mobile.  An unknown mobile has no
// addresses rather than being an error.
func (h *AddressHandler) List(c echo.Context) error {
    mobile := strings.TrimSpace(c.Param("mobile"))
    if !utils.ValidMobile(mobile) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid mobile number"})
    }

    ctx, cancel := requestCtx(c)
    defer cancel()

    uid, err := h.Users.IDByMobile(ctx, mobile)
    if errors.Is(err, repository.ErrUserNotFound) {
        return c.JSON(http.StatusOK, []model.Address{})
    }
    if err != nil {
        logger(c, h.Log).WithError(err).Error("lookup user failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    addrs, err := h.Addresses.ListByUser(ctx, uid)
    if err != nil {
        logger(c, h.Log).WithError(err).Error("list addresses failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, addrs)
}

// Create handles POST /api/address.  The stored contact mobile is the
// owner's mobile.
func (h *AddressHandler) Create(c echo.Context) error {
    var req addressReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    req.Mobile = strings.TrimSpace(req.Mobile)
    if !utils.ValidMobile(req.Mobile) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Valid mobile number required"})
    }
    req.AddressLine = strings.TrimSpace(req.AddressLine)
    if req.AddressLine == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Address line is required"})
    }

    ctx, cancel := requestCtx(c)
    defer cancel()

    uid, err := h.Users.IDByMobile(ctx, req.Mobile)
    if errors.Is(err, repository.ErrUserNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
    }
    if err != nil {
        logger(c, h.Log).WithError(err).Error("lookup user failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    id, err := h.Addresses.Create(ctx, uid, model.Address{
        Name:        req.Name,
        Mobile:      &req.Mobile,
        AddressLine: req.AddressLine,
        City:        req.City,
        State:       req.State,
        Pincode:     req.Pincode,
    })
    if err != nil {
        logger(c, h.Log).WithError(err).Error("create address failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save address"})
    }
    h.Metrics.Inc(metrics.AddressesAdded)
    return c.JSON(http.StatusCreated, echo.Map{"message": "Address saved successfully", "id": id})
}
