package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/storefront/internal/database"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/utils"
)

// UserRepo owns the `users` table: lookup by mobile and auto-registration.
type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes password and inserts the user, returning its ID.  A
// duplicate mobile yields ErrMobileExists.
func (r *UserRepo) Create(ctx context.Context, mobile, password string, cost int) (uint64, error) {
	mobile = strings.TrimSpace(mobile)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	id, err := database.InsertReturningID(ctx, r.DB,
		"INSERT INTO users (mobile, password) VALUES (?, ?)", mobile, hash)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, ErrMobileExists
		}
		return 0, err
	}
	return id, nil
}

// GetByMobile fetches a user by mobile number.
func (r *UserRepo) GetByMobile(ctx context.Context, mobile string) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u,
		r.DB.Rebind("SELECT id, mobile, password, created_at FROM users WHERE mobile = ? LIMIT 1"),
		strings.TrimSpace(mobile))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// IDByMobile resolves only the user's ID.
func (r *UserRepo) IDByMobile(ctx context.Context, mobile string) (uint64, error) {
	var id uint64
	err := r.DB.GetContext(ctx, &id,
		r.DB.Rebind("SELECT id FROM users WHERE mobile = ? LIMIT 1"),
		strings.TrimSpace(mobile))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return id, err
}
