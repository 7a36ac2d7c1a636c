// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios with
// errors.Is instead of comparing message strings.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the repositories translate.
const (
	mysqlDuplicateEntry = 1062
	mysqlRowReferenced  = 1451
	mysqlNoReferenced   = 1452
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameExists        = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrBookNotFound          = errors.New("book not found")
	ErrBookExists            = errors.New("book reference already exists")
	ErrBookInUse             = errors.New("book is referenced by order items")
	ErrOutOfStockOrNotFound  = errors.New("book out of stock or not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")
	ErrOrderItemNotFound     = errors.New("order item not found")
	ErrOrderOrBookNotFound   = errors.New("order or book not found")
	ErrTotalUnavailable      = errors.New("unable to compute order total")
)

// OutOfStockError reports which book could not cover a requested quantity.
// It matches ErrOutOfStockOrNotFound under errors.Is.
type OutOfStockError struct {
	BookID    uint64
	Requested int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("book %d out of stock or not found (requested %d)", e.BookID, e.Requested)
}

func (e *OutOfStockError) Unwrap() error { return ErrOutOfStockOrNotFound }

// querier is satisfied by both *sql.DB and *sql.Tx so the same statement
// code can run inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func mysqlErrNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicateKey(err error) bool { return mysqlErrNumber(err) == mysqlDuplicateEntry }

func isMissingReference(err error) bool { return mysqlErrNumber(err) == mysqlNoReferenced }

func isReferenced(err error) bool { return mysqlErrNumber(err) == mysqlRowReferenced }

// likeContains turns a user supplied fragment into a LIKE pattern matching
// it as a literal substring.
func likeContains(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// affected returns ErrNotFound-style sentinel notFound when res touched no rows.
func affected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
