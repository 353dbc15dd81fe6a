package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	return newMockDBWith(t, func() (*sql.DB, sqlmock.Sqlmock, error) { return sqlmock.New() })
}

// newMockDBWith exists because sqlmock's option type is unexported and
// cannot be named in a variadic helper signature.
func newMockDBWith(t *testing.T, open func() (*sql.DB, sqlmock.Sqlmock, error)) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := open()
	require.NoError(t, err)

	db := Wrap(sqlx.NewDb(sqlDB, "postgres"))
	t.Cleanup(func() {
		db.Close()
	})
	return db, mock
}

func TestWithTransactionCommits(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		_, err := tx.Exec("UPDATE tasks SET status = 'Done'")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	failure := errors.New("assignee missing")
	err := db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		return failure
	})
	assert.Same(t, failure, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransactionBeginFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	called := false
	err := db.WithTransaction(context.Background(), func(tx *sqlx.Tx) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}

func TestHealthCheck(t *testing.T) {
	db, mock := newMockDBWith(t, func() (*sql.DB, sqlmock.Sqlmock, error) {
		return sqlmock.New(sqlmock.MonitorPingsOption(true))
	})

	mock.ExpectPing()
	require.NoError(t, db.HealthCheck())

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err := db.HealthCheck()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database health check failed")

	assert.Equal(t, "postgres", db.GetConnectionInfo()["driver"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
