// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver errors.
package repository

import "errors"

// ErrUserNotFound is returned when no account matches a mobile number.
// Handlers translate it into 404, or into an empty list on read paths.
var ErrUserNotFound = errors.New("user not found")

// ErrMobileExists is returned when inserting a user whose mobile is taken.
var ErrMobileExists = errors.New("mobile already registered")

// ErrAddressNotFound is returned when an address id does not exist or does
// not belong to the user placing the order.
var ErrAddressNotFound = errors.New("address not found")

// ErrOrderNotFound is returned when a status update matches no order row.
var ErrOrderNotFound = errors.New("order not found")

// ErrProductNotFound is returned when an update or delete matches no
// product row.
var ErrProductNotFound = errors.New("product not found")

// ErrEmptyOrder guards the invariant that an order always has items.
var ErrEmptyOrder = errors.New("order has no items")
