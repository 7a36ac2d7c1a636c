package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bookstore/internal/model"
)

var bookCols = []string{"reference", "title", "author", "editor", "year", "price", "description", "cover", "stock", "created_at", "updated_at"}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newBookRepo(t *testing.T) (*BookRepo, sqlmock.Sqlmock) {
	db, mock := newMock(t)
	r := NewBookRepo(db)
	r.now = func() time.Time { return fixedNow }
	return r, mock
}

func TestBookCreate(t *testing.T) {
	r, mock := newBookRepo(t)
	b := &model.Book{Reference: 3, Title: "The great Gatsby", Author: "F. Scott Fitzgerald", Editor: "penguin classics",
		Year: 1925, Price: decimal.RequireFromString("9.99"), Stock: 4}
	mock.ExpectExec(sqlq("INSERT INTO books")).
		WithArgs(3, "The great Gatsby", "F. Scott Fitzgerald", "penguin classics", 1925, "9.99", nil, nil, 4, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(3, 1))

	require.NoError(t, r.Create(context.Background(), b))
	assert.Equal(t, fixedNow, b.CreatedAt)
	assert.Equal(t, fixedNow, b.UpdatedAt)
}

func TestBookCreateDuplicate(t *testing.T) {
	r, mock := newBookRepo(t)
	mock.ExpectExec(sqlq("INSERT INTO books")).WillReturnError(&mysql.MySQLError{Number: 1062})

	err := r.Create(context.Background(), &model.Book{Reference: 1, Title: "x"})
	require.ErrorIs(t, err, ErrBookExists)
}

func TestBookGetByReference(t *testing.T) {
	r, mock := newBookRepo(t)
	mock.ExpectQuery(sqlq("FROM books WHERE reference = ?")).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(bookCols).
			AddRow(1, "Pride and Prejudice", "Jane Austen", "penguin classics", 1878, "12.90", nil, "/images/cover-1.jpg", 5, fixedNow, fixedNow))
	mock.ExpectQuery(sqlq("FROM books WHERE reference = ?")).WithArgs(404).
		WillReturnRows(sqlmock.NewRows(bookCols))

	b, err := r.GetByReference(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Pride and Prejudice", b.Title)
	assert.True(t, b.Price.Equal(decimal.RequireFromString("12.9")))
	assert.Empty(t, b.Description)
	assert.Equal(t, "/images/cover-1.jpg", b.Cover)

	_, err = r.GetByReference(context.Background(), 404)
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookSearchByTitle(t *testing.T) {
	r, mock := newBookRepo(t)
	mock.ExpectQuery(sqlq("WHERE LOWER(title) LIKE LOWER(?)")).WithArgs("%gatsby%").
		WillReturnRows(sqlmock.NewRows(bookCols).
			AddRow(3, "The great Gatsby", "F. Scott Fitzgerald", "penguin classics", 1925, "9.99", "desc", nil, 4, fixedNow, fixedNow))
	mock.ExpectQuery(sqlq("WHERE LOWER(title) LIKE LOWER(?)")).WithArgs(`%100\%%`).
		WillReturnRows(sqlmock.NewRows(bookCols))

	books, err := r.SearchByTitle(context.Background(), "gatsby")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, uint64(3), books[0].Reference)

	books, err = r.SearchByTitle(context.Background(), "100%")
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestBookUpdate(t *testing.T) {
	r, mock := newBookRepo(t)
	mock.ExpectExec(sqlq("UPDATE books SET title = ?")).
		WithArgs("New", "A", "E", 2000, "5", nil, nil, 2, fixedNow, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(sqlq("FROM books WHERE reference = ?")).WithArgs(9).
		WillReturnRows(sqlmock.NewRows(bookCols).AddRow(9, "New", "A", "E", 2000, "5.00", nil, nil, 2, fixedNow, fixedNow))
	mock.ExpectExec(sqlq("UPDATE books SET title = ?")).WillReturnResult(sqlmock.NewResult(0, 0))

	b, err := r.Update(context.Background(), &model.Book{Reference: 9, Title: "New", Author: "A", Editor: "E", Year: 2000, Price: decimal.NewFromInt(5), Stock: 2})
	require.NoError(t, err)
	assert.Equal(t, "New", b.Title)

	_, err = r.Update(context.Background(), &model.Book{Reference: 10, Price: decimal.Zero})
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookDeletes(t *testing.T) {
	r, mock := newBookRepo(t)
	mock.ExpectExec(sqlq("DELETE FROM books WHERE reference = ?")).WithArgs(77).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(sqlq("DELETE FROM books WHERE title LIKE ?")).WithArgs("%witcher%").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := r.Delete(context.Background(), 77)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.DeleteByTitle(context.Background(), "witcher")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestBookConsumeStock(t *testing.T) {
	r, mock := newBookRepo(t)
	mock.ExpectExec(sqlq("UPDATE books SET stock = stock - 1, updated_at = ? WHERE reference = ? AND stock > 0")).
		WithArgs(fixedNow, 12).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlq("UPDATE books SET stock = stock - 1")).
		WithArgs(fixedNow, 12).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, r.ConsumeStock(context.Background(), 12))
	require.ErrorIs(t, r.ConsumeStock(context.Background(), 12), ErrOutOfStockOrNotFound)
}

func TestBookReplenishAndStock(t *testing.T) {
	r, mock := newBookRepo(t)
	mock.ExpectExec(sqlq("UPDATE books SET stock = stock + ?")).
		WithArgs(3, fixedNow, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlq("UPDATE books SET stock = stock + ?")).
		WithArgs(3, fixedNow, 999).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(sqlq("SELECT stock FROM books WHERE reference = ?")).WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(8))
	mock.ExpectQuery(sqlq("SELECT stock FROM books")).WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}))

	ctx := context.Background()
	require.NoError(t, r.ReplenishStock(ctx, 1, 3))
	require.ErrorIs(t, r.ReplenishStock(ctx, 999, 3), ErrBookNotFound)

	s, err := r.GetStock(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, s)
	_, err = r.GetStock(ctx, 999)
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookReserveStockTx(t *testing.T) {
	r, mock := newBookRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(sqlq("UPDATE books SET stock = stock - ?, updated_at = ? WHERE reference = ? AND stock >= ?")).
		WithArgs(2, fixedNow, 5, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(sqlq("AND stock >= ?")).
		WithArgs(9, fixedNow, 5, 9).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := r.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, r.ReserveStockTx(ctx, tx, 5, 2))

	err = r.ReserveStockTx(ctx, tx, 5, 9)
	require.ErrorIs(t, err, ErrOutOfStockOrNotFound)
	var oos *OutOfStockError
	require.True(t, errors.As(err, &oos))
	assert.Equal(t, uint64(5), oos.BookID)
	assert.Equal(t, 9, oos.Requested)
	require.NoError(t, tx.Rollback())
}

func TestBookGetForUpdateTx(t *testing.T) {
	r, mock := newBookRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(sqlq("WHERE reference = ? FOR UPDATE")).WithArgs(4).
		WillReturnRows(sqlmock.NewRows(bookCols))
	mock.ExpectRollback()

	ctx := context.Background()
	tx, err := r.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = r.GetForUpdateTx(ctx, tx, 4)
	require.ErrorIs(t, err, ErrBookNotFound)
	require.NoError(t, tx.Rollback())
}

func TestBookDeleteReferenced(t *testing.T) {
	r, mock := newBookRepo(t)
	mock.ExpectExec(sqlq("DELETE FROM books WHERE reference = ?")).WithArgs(1).
		WillReturnError(&mysql.MySQLError{Number: 1451})

	_, err := r.Delete(context.Background(), 1)
	require.ErrorIs(t, err, ErrBookInUse)
}
