package model

import "time"

// Role names returned by the auth endpoint.  A role is never stored; it is
// derived from the configured admin mobile number on every request.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents a row of the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Mobile       – unique 10 digit phone number, the login identifier.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `db:"id"`         // users.id
	Mobile       string    `db:"mobile"`     // users.mobile
	PasswordHash string    `db:"password"`   // users.password
	CreatedAt    time.Time `db:"created_at"` // users.created_at
}

// RoleFor classifies a mobile number against the configured admin number.
func RoleFor(mobile, adminMobile string) string {
	if mobile != "" && mobile == adminMobile {
		return RoleAdmin
	}
	return RoleCustomer
}
