package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/model"
)

func newMock(t *testing.T, driver string) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return sqlx.NewDb(raw, driver), mock
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMock(t, "mysql")
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("9876543210", sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := NewUserRepo(db).Create(context.Background(), "9876543210", "secret1", 4)
	assert.ErrorIs(t, err, ErrMobileExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserLookupMissing(t *testing.T) {
	db, mock := newMock(t, "mysql")
	mock.ExpectQuery(`SELECT id FROM users WHERE mobile = \?`).
		WithArgs("9876543210").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewUserRepo(db).IDByMobile(context.Background(), "9876543210")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProductListIsOrderedAndNonNil(t *testing.T) {
	db, mock := newMock(t, "mysql")
	mock.ExpectQuery(`SELECT id, name, quantity, price, unit FROM products ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "quantity", "price", "unit"}))

	got, err := NewProductRepo(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProductUpdateMissing(t *testing.T) {
	db, mock := newMock(t, "mysql")
	mock.ExpectExec(`UPDATE products SET`).
		WithArgs("Rice", 5, "50.00", "kg", uint64(77)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewProductRepo(db).Update(context.Background(), 77, model.Product{
		Name: "Rice", Quantity: 5, Price: decimalOf("50"), Unit: "kg",
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductCreatePostgres(t *testing.T) {
	db, mock := newMock(t, "postgres")
	mock.ExpectQuery(`INSERT INTO products \(name, quantity, price, unit\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id`).
		WithArgs("Rice", 5, "50.00", "kg").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	id, err := NewProductRepo(db).Create(context.Background(), model.Product{
		Name: "Rice", Quantity: 5, Price: decimalOf("50"), Unit: "kg",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
}

func TestAddressOwnerLocksRow(t *testing.T) {
	for driver, lock := range map[string]string{"mysql": `LOCK IN SHARE MODE`, "postgres": `FOR SHARE`} {
		t.Run(driver, func(t *testing.T) {
			db, mock := newMock(t, driver)
			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT user_id FROM addresses WHERE id = .* ` + lock).
				WithArgs(uint64(4)).
				WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
			mock.ExpectRollback()

			tx, err := db.Beginx()
			require.NoError(t, err)
			_, err = NewAddressRepo(db).OwnerTx(context.Background(), tx, 4)
			assert.ErrorIs(t, err, ErrAddressNotFound)
			require.NoError(t, tx.Rollback())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateItemsBulkTx(t *testing.T) {
	db, mock := newMock(t, "mysql")
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO order_items \(order_id, product_name, price, quantity, unit\) VALUES \(\?, \?, \?, \?, \?\),\(\?, \?, \?, \?, \?\)`).
		WithArgs(uint64(10), "Rice", "50.00", 2, "kg", uint64(10), "Dal", "120.50", 1, "kg").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	repo := NewOrderRepo(db)
	require.NoError(t, repo.CreateItemsBulkTx(context.Background(), tx, 10, []model.CartItem{
		{Name: "Rice", Price: decimalOf("50"), Quantity: 2, Unit: "kg"},
		{Name: "Dal", Price: decimalOf("120.5"), Quantity: 1, Unit: "kg"},
	}))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.ErrorIs(t, repo.CreateItemsBulkTx(context.Background(), nil, 10, nil), ErrEmptyOrder)
}

func TestUpdateStatusMissing(t *testing.T) {
	db, mock := newMock(t, "mysql")
	mock.ExpectExec(`UPDATE orders SET status = \? WHERE id = \?`).
		WithArgs("SHIPPED", uint64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewOrderRepo(db).UpdateStatus(context.Background(), 999, "SHIPPED")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListByUserAttachesItems(t *testing.T) {
	db, mock := newMock(t, "mysql")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`SELECT o.id, o.total_amount, o.status, o.created_at, a.address_line, a.city FROM orders o`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount", "status", "created_at", "address_line", "city"}).
			AddRow(8, "30.00", "PLACED", now, "2 Side St", nil).
			AddRow(5, "100.00", "SHIPPED", now, "1 Main St", "Pune"))
	mock.ExpectQuery(`SELECT order_id, product_name, price, quantity, unit FROM order_items WHERE order_id IN \(\?, \?\) ORDER BY order_id, id`).
		WithArgs(uint64(8), uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "product_name", "price", "quantity", "unit"}).
			AddRow(5, "Rice", "50.00", 2, "kg"))

	orders, err := NewOrderRepo(db).ListByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, uint64(8), orders[0].ID)
	assert.NotNil(t, orders[0].Items)
	assert.Empty(t, orders[0].Items)
	require.Len(t, orders[1].Items, 1)
	assert.Equal(t, "Rice", orders[1].Items[0].ProductName)
	assert.True(t, orders[1].TotalAmount.Equal(decimalOf("100")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func decimalOf(s string) decimal.Decimal { return decimal.RequireFromString(s) }
