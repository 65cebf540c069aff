package model

// Address is a delivery address owned by a user.  Only AddressLine is
// mandatory; the remaining columns are nullable and encode as JSON null
// when absent.  Addresses are never updated once written.
type Address struct {
	ID          uint64  `db:"id" json:"id"`
	UserID      uint64  `db:"user_id" json:"-"`
	Name        *string `db:"name" json:"name"`
	Mobile      *string `db:"mobile" json:"mobile"`
	AddressLine string  `db:"address_line" json:"address_line"`
	City        *string `db:"city" json:"city"`
	State       *string `db:"state" json:"state"`
	Pincode     *string `db:"pincode" json:"pincode"`
}
