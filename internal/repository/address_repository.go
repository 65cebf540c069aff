package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/storefront/internal/database"
	"github.com/iliyamo/storefront/internal/model"
)

// AddressRepo stores delivery addresses.  There is no update or delete:
// once written an address is immutable and may be reused by many orders.
type AddressRepo struct {
	db *sqlx.DB
}

// NewAddressRepo returns a new AddressRepo bound to the given database.
func NewAddressRepo(db *sqlx.DB) *AddressRepo { return &AddressRepo{db: db} }

// ListByUser returns the user's addresses in creation order.
func (r *AddressRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Address, error) {
	addrs := []model.Address{}
	const q = `SELECT id, user_id, name, mobile, address_line, city, state, pincode
               FROM addresses WHERE user_id = ? ORDER BY id`
	if err := r.db.SelectContext(ctx, &addrs, r.db.Rebind(q), userID); err != nil {
		return nil, err
	}
	return addrs, nil
}

// Create inserts the address for the given user and returns the new id.
func (r *AddressRepo) Create(ctx context.Context, userID uint64, a model.Address) (uint64, error) {
	const q = `INSERT INTO addresses (user_id, name, mobile, address_line, city, state, pincode)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	return database.InsertReturningID(ctx, r.db, q,
		userID, a.Name, a.Mobile, a.AddressLine, a.City, a.State, a.Pincode)
}

// OwnerTx returns the owning user of an address inside tx.  The row is read
// with a shared lock so it cannot vanish before the order referencing it
// commits.
func (r *AddressRepo) OwnerTx(ctx context.Context, tx *sqlx.Tx, addressID uint64) (uint64, error) {
	var owner uint64
	q := `SELECT user_id FROM addresses WHERE id = ?`
	if tx.DriverName() == "postgres" {
		q += ` FOR SHARE`
	} else {
		q += ` LOCK IN SHARE MODE`
	}
	err := tx.GetContext(ctx, &owner, tx.Rebind(q), addressID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAddressNotFound
	}
	return owner, err
}
