package model

import "github.com/shopspring/decimal"

// Product mirrors the `products` table.  Names are not unique; the catalog
// accepts duplicates.
type Product struct {
	ID       uint64          `db:"id" json:"id"`
	Name     string          `db:"name" json:"name"`
	Quantity int             `db:"quantity" json:"quantity"`
	Price    decimal.Decimal `db:"price" json:"price"`
	Unit     string          `db:"unit" json:"unit"`
}
