package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertReturningIDMySQL(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	mock.ExpectExec(`INSERT INTO products`).
		WithArgs("Rice").
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := InsertReturningID(context.Background(), db, "INSERT INTO products (name) VALUES (?)", "Rice")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReturningIDPostgres(t *testing.T) {
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "postgres")

	mock.ExpectQuery("INSERT INTO products (name) VALUES ($1) RETURNING id").
		WithArgs("Rice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := InsertReturningID(context.Background(), db, "INSERT INTO products (name) VALUES (?)", "Rice")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&mysql.MySQLError{Number: 1062}))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&mysql.MySQLError{Number: 1452}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
