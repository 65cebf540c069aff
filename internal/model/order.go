package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusPlaced is the status every new order starts in.  Admins may later
// overwrite it with any string.
const StatusPlaced = "PLACED"

// CartItem is one line of the cart a customer submits with an order.  It is
// copied by value into order_items; it never references a product row.
type CartItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
	Unit     string
}

// LineTotal returns price × quantity.
func (ci CartItem) LineTotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// CartTotal sums price × quantity over the cart using decimal arithmetic.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total.Round(MoneyPlaces)
}

// OrderItem is the snapshot of a cart line stored in `order_items`.
type OrderItem struct {
	OrderID     uint64          `db:"order_id" json:"-"`
	ProductName string          `db:"product_name" json:"product_name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Unit        string          `db:"unit" json:"unit"`
}

// CustomerOrder is an order as listed to its owner on /api/my-orders.
type CustomerOrder struct {
	ID          uint64          `db:"id" json:"id"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status      string          `db:"status" json:"status"`
	CreatedAt   *time.Time      `db:"created_at" json:"created_at"`
	AddressLine string          `db:"address_line" json:"address_line"`
	City        *string         `db:"city" json:"city"`
	Items       []OrderItem     `db:"-" json:"items"`
}

// OrderAddress is the delivery address embedded in an admin order listing.
type OrderAddress struct {
	Name        *string `json:"name"`
	AddressLine string  `json:"address_line"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Pincode     *string `json:"pincode"`
}

// AdminOrder is an order as listed on the admin dashboard, including the
// customer's mobile number and full delivery address.
type AdminOrder struct {
	OrderID     uint64          `json:"order_id"`
	Mobile      string          `json:"mobile"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedAt   *time.Time      `json:"created_at"`
	Address     OrderAddress    `json:"address"`
	Items       []OrderItem     `json:"items"`
}
