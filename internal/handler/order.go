package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/storefront/internal/metrics"
    "github.com/iliyamo/storefront/internal/model"
    "github.com/iliyamo/storefront/internal/queue"
    "github.com/iliyamo/storefront/internal/repository"
    "github.com/iliyamo/storefront/internal/utils"
)

// OrderEvents receives an event for every committed order.
type OrderEvents interface {
    PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error
}

// OrderHandler places and lists orders and lets the admin move them
// through their status lifecycle.  Placement writes the order and all of
// its items in one transaction.
type OrderHandler struct {
    Users     *repository.UserRepo
    Addresses *repository.AddressRepo
    Orders    *repository.OrderRepo
    Metrics   *metrics.Aggregator
    Events    OrderEvents // nil disables publishing
    Log       logrus.FieldLogger
}

func NewOrderHandler(u *repository.UserRepo, a *repository.AddressRepo, o *repository.OrderRepo, m *metrics.Aggregator, ev OrderEvents, log logrus.FieldLogger) *OrderHandler {
    if u == nil || a == nil || o == nil || m == nil {
        panic("nil dependency passed to NewOrderHandler")
    }
    return &OrderHandler{Users: u, Addresses: a, Orders: o, Metrics: m, Events: ev, Log: log}
}

type cartLine struct {
    Name     string           `json:"name"`
    Price    *decimal.Decimal `json:"price"`
    Quantity *int             `json:"quantity"`
    Unit     string           `json:"unit"`
}

type placeOrderReq struct {
    Mobile    string     `json:"mobile"`
    AddressID uint64     `json:"address_id"`
    Cart      []cartLine `json:"cart"`
}

// cartItems validates every line and converts the cart.  A single bad
// line rejects the whole order.
func (r placeOrderReq) cartItems() ([]model.CartItem, bool) {
    if len(r.Cart) == 0 {
        return nil, false
    }
    items := make([]model.CartItem, 0, len(r.Cart))
    for _, l := range r.Cart {
        name, unit := strings.TrimSpace(l.Name), strings.TrimSpace(l.Unit)
        if name == "" || unit == "" || l.Price == nil || l.Quantity == nil {
            return nil, false
        }
        if l.Price.IsNegative() || !model.IsMoney(*l.Price) || *l.Quantity < 1 {
            return nil, false
        }
        items = append(items, model.CartItem{Name: name, Price: *l.Price, Quantity: *l.Quantity, Unit: unit})
    }
    return items, true
}

// Place handles POST /api/order.
func (h *OrderHandler) Place(c echo.Context) error {
    var req placeOrderReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order data"})
    }
    req.Mobile = strings.TrimSpace(req.Mobile)
    items, ok := req.cartItems()
    if req.Mobile == "" || req.AddressID == 0 || !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid order data"})
    }

    ctx, cancel := requestCtx(c)
    defer cancel()
    log := logger(c, h.Log).WithField("mobile", req.Mobile)

    userID, err := h.Users.IDByMobile(ctx, req.Mobile)
    if errors.Is(err, repository.ErrUserNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
    }
    if err != nil {
        log.WithError(err).Error("lookup user failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    total := model.CartTotal(items)

    tx, err := h.Orders.DB().BeginTxx(ctx, nil)
    if err != nil {
        log.WithError(err).Error("begin order tx failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    owner, err := h.Addresses.OwnerTx(ctx, tx, req.AddressID)
    if errors.Is(err, repository.ErrAddressNotFound) || (err == nil && owner != userID) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "Address not found"})
    }
    if err != nil {
        log.WithError(err).Error("address lookup failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    rec := &repository.OrderRecord{
        UserID:      userID,
        AddressID:   req.AddressID,
        TotalAmount: total,
        Status:      model.StatusPlaced,
    }
    if err := h.Orders.CreateTx(ctx, tx, rec); err != nil {
        log.WithError(err).Error("create order failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
    }
    if err := h.Orders.CreateItemsBulkTx(ctx, tx, rec.ID, items); err != nil {
        log.WithError(err).WithField("order_id", rec.ID).Error("create order items failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order items"})
    }
    if err := tx.Commit(); err != nil {
        log.WithError(err).Error("commit order failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true

    h.Metrics.Inc(metrics.OrdersPlaced)
    h.Metrics.Track(metrics.OrdersTotalValue, total)
    log.WithFields(logrus.Fields{"order_id": rec.ID, "total": total.StringFixed(model.MoneyPlaces)}).Info("order placed")

    h.publish(c, log, rec, req.Mobile, items)
    return c.JSON(http.StatusCreated, echo.Map{"message": "Order placed", "order_id": rec.ID})
}

// publish sends the order.placed event in the background.  The order is
// already committed, so a broker failure is only logged.
func (h *OrderHandler) publish(c echo.Context, log logrus.FieldLogger, rec *repository.OrderRecord, mobile string, items []model.CartItem) {
    if h.Events == nil {
        return
    }
    ev := queue.OrderPlacedEvent{
        OrderID:     rec.ID,
        UserID:      rec.UserID,
        Mobile:      mobile,
        AddressID:   rec.AddressID,
        TotalAmount: rec.TotalAmount,
        Items:       make([]queue.OrderEventItem, 0, len(items)),
        PlacedAt:    time.Now().UTC().Format(time.RFC3339),
    }
    for _, it := range items {
        ev.Items = append(ev.Items, queue.OrderEventItem{Name: it.Name, Price: it.Price, Quantity: it.Quantity, Unit: it.Unit})
    }
    base := context.WithoutCancel(c.Request().Context())
    go func() {
        ctx, cancel := context.WithTimeout(base, dbTimeout)
        defer cancel()
        if err := h.Events.PublishOrderPlaced(ctx, ev); err != nil {
            log.WithError(err).WithField("order_id", ev.OrderID).Warn("order event not published")
        }
    }()
}

// ListMine handles GET /api/my-orders/:mobile.
func (h *OrderHandler) ListMine(c echo.Context) error {
    mobile := strings.TrimSpace(c.Param("mobile"))
    if !utils.ValidMobile(mobile) {
        return c.JSON(http.StatusOK, []model.CustomerOrder{})
    }

    ctx, cancel := requestCtx(c)
    defer cancel()

    uid, err := h.Users.IDByMobile(ctx, mobile)
    if errors.Is(err, repository.ErrUserNotFound) {
        return c.JSON(http.StatusOK, []model.CustomerOrder{})
    }
    if err != nil {
        logger(c, h.Log).WithError(err).Error("lookup user failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    orders, err := h.Orders.ListByUser(ctx, uid)
    if err != nil {
        logger(c, h.Log).WithError(err).Error("list orders failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, orders)
}

// ListAll handles GET /api/admin/orders/:mobile.  The path mobile only
// feeds the admin gate; every order in the store is returned.
func (h *OrderHandler) ListAll(c echo.Context) error {
    ctx, cancel := requestCtx(c)
    defer cancel()

    orders, err := h.Orders.ListAll(ctx)
    if err != nil {
        logger(c, h.Log).WithError(err).Error("list all orders failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, orders)
}

type statusReq struct {
    OrderID uint64 `json:"order_id"`
    Status  string `json:"status"`
}

// UpdateStatus handles PUT /api/admin/order/status.  Any status string is
// accepted from any current status.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
    var req statusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid data"})
    }
    req.Status = strings.TrimSpace(req.Status)
    if req.OrderID == 0 || req.Status == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid data"})
    }

    ctx, cancel := requestCtx(c)
    defer cancel()

    if err := h.Orders.UpdateStatus(ctx, req.OrderID, req.Status); err != nil {
        if errors.Is(err, repository.ErrOrderNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "Order not found"})
        }
        logger(c, h.Log).WithError(err).WithField("order_id", req.OrderID).Error("update order status failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    h.Metrics.Inc(metrics.OrderStatusUpdated)
    return c.JSON(http.StatusOK, echo.Map{"message": "Status updated"})
}
