package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/storefront/internal/database"
	"github.com/iliyamo/storefront/internal/model"
)

// ProductRepo provides CRUD operations for the catalog.  Reads are public;
// writes are reached only through admin routes.
type ProductRepo struct {
	db *sqlx.DB
}

// NewProductRepo returns a new ProductRepo bound to the given database.
func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// List returns every product ordered by ascending id, so repeated calls
// without writes in between return identical slices.  An empty catalog
// yields an empty, non-nil slice.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	const q = `SELECT id, name, quantity, price, unit FROM products ORDER BY id`
	if err := r.db.SelectContext(ctx, &products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a product and returns its generated id.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (uint64, error) {
	const q = `INSERT INTO products (name, quantity, price, unit) VALUES (?, ?, ?, ?)`
	return database.InsertReturningID(ctx, r.db, q, p.Name, p.Quantity, p.Price.StringFixed(model.MoneyPlaces), p.Unit)
}

// Update overwrites every column of the product with the given id.
func (r *ProductRepo) Update(ctx context.Context, id uint64, p model.Product) error {
	const q = `UPDATE products SET name = ?, quantity = ?, price = ?, unit = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), p.Name, p.Quantity, p.Price.StringFixed(model.MoneyPlaces), p.Unit, id)
	return expectRow(res, err, ErrProductNotFound)
}

// Delete physically removes the product.  Past orders are unaffected since
// order items hold copies of the product fields.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM products WHERE id = ?`), id)
	return expectRow(res, err, ErrProductNotFound)
}

// expectRow maps a zero RowsAffected to notFound.
func expectRow(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
