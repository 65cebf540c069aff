package repository

import (
    "context"
    "strings"
    "time"

    "github.com/jmoiron/sqlx"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/storefront/internal/database"
    "github.com/iliyamo/storefront/internal/model"
)

// OrderRepo provides persistence for orders and their line items.  An
// order and its order_items rows are always written inside one caller
// supplied transaction so readers never see an order without items.
type OrderRepo struct {
    db *sqlx.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the pool so callers can open the placement transaction.
func (r *OrderRepo) DB() *sqlx.DB { return r.db }

// OrderRecord mirrors the columns written when an order is created.
type OrderRecord struct {
    ID          uint64
    UserID      uint64
    AddressID   uint64
    TotalAmount decimal.Decimal
    Status      string
}

// CreateTx inserts a new order within the scope of an existing
// transaction and populates the generated ID on rec.  The caller must
// commit or rollback the transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, rec *OrderRecord) error {
    const q = `INSERT INTO orders (user_id, address_id, total_amount, status) VALUES (?, ?, ?, ?)`
    id, err := database.InsertReturningID(ctx, tx, q,
        rec.UserID, rec.AddressID, rec.TotalAmount.StringFixed(model.MoneyPlaces), rec.Status)
    if err != nil {
        return err
    }
    rec.ID = id
    return nil
}

// CreateItemsBulkTx inserts one order_items row per cart line in a single
// statement.  An empty cart is rejected with ErrEmptyOrder.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sqlx.Tx, orderID uint64, items []model.CartItem) error {
    if len(items) == 0 {
        return ErrEmptyOrder
    }
    var sb strings.Builder
    sb.WriteString(`INSERT INTO order_items (order_id, product_name, price, quantity, unit) VALUES `)
    args := make([]interface{}, 0, len(items)*5)
    for i, it := range items {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("(?, ?, ?, ?, ?)")
        args = append(args, orderID, it.Name, it.Price.StringFixed(model.MoneyPlaces), it.Quantity, it.Unit)
    }
    _, err := tx.ExecContext(ctx, tx.Rebind(sb.String()), args...)
    return err
}

// UpdateStatus overwrites the status of an order.  Any status string is
// accepted and any transition is allowed.  ErrOrderNotFound is returned
// when no row matches.
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID uint64, status string) error {
    res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE orders SET status = ? WHERE id = ?`), status, orderID)
    return expectRow(res, err, ErrOrderNotFound)
}

// ListByUser returns the user's orders newest first, each joined with its
// delivery address and carrying its items.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.CustomerOrder, error) {
    const q = `SELECT o.id, o.total_amount, o.status, o.created_at, a.address_line, a.city
               FROM orders o
               JOIN addresses a ON o.address_id = a.id
               WHERE o.user_id = ?
               ORDER BY o.id DESC`
    orders := []model.CustomerOrder{}
    if err := r.db.SelectContext(ctx, &orders, r.db.Rebind(q), userID); err != nil {
        return nil, err
    }
    ids := make([]uint64, 0, len(orders))
    for _, o := range orders {
        ids = append(ids, o.ID)
    }
    items, err := r.itemsByOrder(ctx, ids)
    if err != nil {
        return nil, err
    }
    for i := range orders {
        orders[i].Items = itemsOrEmpty(items[orders[i].ID])
    }
    return orders, nil
}

// adminOrderRow is the flat shape of the admin listing query.
type adminOrderRow struct {
    OrderID     uint64          `db:"order_id"`
    Mobile      string          `db:"mobile"`
    TotalAmount decimal.Decimal `db:"total_amount"`
    Status      string          `db:"status"`
    CreatedAt   *time.Time      `db:"created_at"`
    Name        *string         `db:"name"`
    AddressLine string          `db:"address_line"`
    City        *string         `db:"city"`
    State       *string         `db:"state"`
    Pincode     *string         `db:"pincode"`
}

// ListAll returns every order in the store newest first, with the
// customer's mobile, the full delivery address and the items.
func (r *OrderRepo) ListAll(ctx context.Context) ([]model.AdminOrder, error) {
    const q = `SELECT o.id AS order_id, u.mobile, o.total_amount, o.status, o.created_at,
                      a.name, a.address_line, a.city, a.state, a.pincode
               FROM orders o
               JOIN users u ON o.user_id = u.id
               JOIN addresses a ON o.address_id = a.id
               ORDER BY o.id DESC`
    var rows []adminOrderRow
    if err := r.db.SelectContext(ctx, &rows, q); err != nil {
        return nil, err
    }
    ids := make([]uint64, 0, len(rows))
    for _, row := range rows {
        ids = append(ids, row.OrderID)
    }
    items, err := r.itemsByOrder(ctx, ids)
    if err != nil {
        return nil, err
    }
    out := make([]model.AdminOrder, 0, len(rows))
    for _, row := range rows {
        out = append(out, model.AdminOrder{
            OrderID:     row.OrderID,
            Mobile:      row.Mobile,
            TotalAmount: row.TotalAmount,
            Status:      row.Status,
            CreatedAt:   row.CreatedAt,
            Address: model.OrderAddress{
                Name:        row.Name,
                AddressLine: row.AddressLine,
                City:        row.City,
                State:       row.State,
                Pincode:     row.Pincode,
            },
            Items: itemsOrEmpty(items[row.OrderID]),
        })
    }
    return out, nil
}

// itemsByOrder loads the items of all given orders in one query, grouped by
// order id and kept in insertion order.
func (r *OrderRepo) itemsByOrder(ctx context.Context, orderIDs []uint64) (map[uint64][]model.OrderItem, error) {
    grouped := make(map[uint64][]model.OrderItem, len(orderIDs))
    if len(orderIDs) == 0 {
        return grouped, nil
    }
    q, args, err := sqlx.In(`SELECT order_id, product_name, price, quantity, unit
                             FROM order_items
                             WHERE order_id IN (?)
                             ORDER BY order_id, id`, orderIDs)
    if err != nil {
        return nil, err
    }
    var items []model.OrderItem
    if err := r.db.SelectContext(ctx, &items, r.db.Rebind(q), args...); err != nil {
        return nil, err
    }
    for _, it := range items {
        grouped[it.OrderID] = append(grouped[it.OrderID], it)
    }
    return grouped, nil
}

func itemsOrEmpty(items []model.OrderItem) []model.OrderItem {
    if items == nil {
        return []model.OrderItem{}
    }
    return items
}
