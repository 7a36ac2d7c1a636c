package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bookstore/internal/model"
)

var orderCols = []string{"id", "user_id", "status", "created_at"}

func TestOrderCreateDefaultsToPending(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(sqlq("INSERT INTO orders (user_id, status) VALUES (?, ?)")).
		WithArgs(1, "pending").WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectQuery(sqlq("FROM orders WHERE id = ?")).WithArgs(10).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(10, 1, "pending", fixedNow))

	o, err := NewOrderRepo(db).Create(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), o.ID)
	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, fixedNow, o.CreatedAt)
}

func TestOrderCreateUnknownUser(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(sqlq("INSERT INTO orders")).WillReturnError(&mysql.MySQLError{Number: 1452})

	_, err := NewOrderRepo(db).Create(context.Background(), 404, model.OrderStatusCompleted)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestOrderListByUserEmpty(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(sqlq("FROM orders WHERE user_id = ?")).WithArgs(3).
		WillReturnRows(sqlmock.NewRows(orderCols))

	orders, err := NewOrderRepo(db).ListByUser(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderUpdateStatus(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(sqlq("UPDATE orders SET status = ? WHERE id = ?")).
		WithArgs("completed", 10).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(sqlq("FROM orders WHERE id = ?")).WithArgs(10).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(10, 1, "completed", fixedNow))
	mock.ExpectExec(sqlq("UPDATE orders SET status = ? WHERE id = ?")).
		WithArgs("cancelled", 11).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewOrderRepo(db)
	o, err := repo.UpdateStatus(context.Background(), 10, model.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, "completed", o.Status)

	_, err = repo.UpdateStatus(context.Background(), 11, model.OrderStatusCancelled)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderCancelTx(t *testing.T) {
	db, mock := newMock(t)
	cancel := sqlq("UPDATE orders SET status = ? WHERE id = ? AND status <> ?")
	mock.ExpectBegin()
	mock.ExpectExec(cancel).WithArgs("cancelled", 1, "cancelled").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(sqlq("FROM orders WHERE id = ?")).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(1, 2, "cancelled", fixedNow))
	mock.ExpectExec(cancel).WithArgs("cancelled", 1, "cancelled").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(sqlq("FROM orders WHERE id = ?")).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(1, 2, "cancelled", fixedNow))
	mock.ExpectExec(cancel).WithArgs("cancelled", 8, "cancelled").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(sqlq("FROM orders WHERE id = ?")).WithArgs(8).
		WillReturnRows(sqlmock.NewRows(orderCols))
	mock.ExpectRollback()

	ctx := context.Background()
	repo := NewOrderRepo(db)
	tx, err := repo.DB().BeginTx(ctx, nil)
	require.NoError(t, err)

	o, err := repo.CancelTx(ctx, tx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, o.Status)

	_, err = repo.CancelTx(ctx, tx, 1)
	require.ErrorIs(t, err, ErrOrderAlreadyCancelled)

	_, err = repo.CancelTx(ctx, tx, 8)
	require.ErrorIs(t, err, ErrOrderNotFound)
	require.NoError(t, tx.Rollback())
}

func TestOrderComputeTotal(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(sqlq("SELECT COALESCE(SUM(quantity * price), 0) FROM order_items WHERE order_id = ?")).
		WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("35.70"))
	mock.ExpectQuery(sqlq("SELECT COALESCE(SUM(quantity * price), 0)")).
		WithArgs(2).WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("0"))
	mock.ExpectQuery(sqlq("SELECT COALESCE(SUM(quantity * price), 0)")).
		WithArgs(3).WillReturnError(errors.New("connection reset"))

	repo := NewOrderRepo(db)
	total, err := repo.ComputeTotal(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("35.7")))

	total, err = repo.ComputeTotal(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	_, err = repo.ComputeTotal(context.Background(), 3)
	require.ErrorIs(t, err, ErrTotalUnavailable)
}

func TestOrderDelete(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(sqlq("DELETE FROM orders WHERE id = ?")).WithArgs(6).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, NewOrderRepo(db).Delete(context.Background(), 6))
}
