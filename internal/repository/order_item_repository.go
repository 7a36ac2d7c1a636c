package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/bookstore/internal/model"
)

const orderItemColumns = "id, order_id, book_id, quantity, price"

// OrderItemRepo handles the order_items table.
type OrderItemRepo struct{ db *sql.DB }

func NewOrderItemRepo(db *sql.DB) *OrderItemRepo { return &OrderItemRepo{db: db} }

func (r *OrderItemRepo) DB() *sql.DB { return r.db }

// Add inserts a line with the caller supplied price.  A missing order or book
// yields ErrOrderOrBookNotFound.
func (r *OrderItemRepo) Add(ctx context.Context, orderID, bookID uint64, quantity int, price decimal.Decimal) (*model.OrderItem, error) {
	return r.add(ctx, r.db, orderID, bookID, quantity, price, false)
}

// AddReservedTx inserts a checkout line inside tx.  The line is flagged as
// holding stock, so only it is given back on cancel or restocking delete.
func (r *OrderItemRepo) AddReservedTx(ctx context.Context, tx *sql.Tx, orderID, bookID uint64, quantity int, price decimal.Decimal) (*model.OrderItem, error) {
	return r.add(ctx, tx, orderID, bookID, quantity, price, true)
}

func (r *OrderItemRepo) add(ctx context.Context, q querier, orderID, bookID uint64, quantity int, price decimal.Decimal, reserved bool) (*model.OrderItem, error) {
	res, err := q.ExecContext(ctx,
		"INSERT INTO order_items (order_id, book_id, quantity, price, reserved) VALUES (?, ?, ?, ?, ?)",
		orderID, bookID, quantity, price, reserved)
	if err != nil {
		if isMissingReference(err) {
			return nil, ErrOrderOrBookNotFound
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.OrderItem{ID: uint64(id), OrderID: orderID, BookID: bookID, Quantity: quantity, Price: price}, nil
}

// ListByOrder returns the lines of orderID in insertion order.
func (r *OrderItemRepo) ListByOrder(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	return r.list(ctx, r.db, orderID)
}

// ListByOrderTx is ListByOrder inside tx.
func (r *OrderItemRepo) ListByOrderTx(ctx context.Context, tx *sql.Tx, orderID uint64) ([]model.OrderItem, error) {
	return r.list(ctx, tx, orderID)
}

func (r *OrderItemRepo) list(ctx context.Context, q querier, orderID uint64) ([]model.OrderItem, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+orderItemColumns+" FROM order_items WHERE order_id = ? ORDER BY id", orderID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// ReleaseReservedTx locks the lines of orderID that still hold stock, clears
// their flag and returns them.  A second call for the same order returns
// nothing.
func (r *OrderItemRepo) ReleaseReservedTx(ctx context.Context, tx *sql.Tx, orderID uint64) ([]model.OrderItem, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+orderItemColumns+" FROM order_items WHERE order_id = ? AND reserved = 1 ORDER BY id FOR UPDATE", orderID)
	if err != nil {
		return nil, err
	}
	items, err := scanItems(rows)
	if err != nil || len(items) == 0 {
		return items, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE order_items SET reserved = 0 WHERE order_id = ? AND reserved = 1", orderID); err != nil {
		return nil, err
	}
	return items, nil
}

func scanItems(rows *sql.Rows) ([]model.OrderItem, error) {
	defer rows.Close()
	items := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.BookID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Delete removes the line unconditionally.
func (r *OrderItemRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM order_items WHERE id = ?", id)
	return err
}

// DeleteTx locks and removes the line.  reserved reports whether the line
// still held stock, in which case the caller gives the quantity back.
func (r *OrderItemRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) (it *model.OrderItem, reserved bool, err error) {
	it = &model.OrderItem{}
	err = tx.QueryRowContext(ctx,
		"SELECT "+orderItemColumns+", reserved FROM order_items WHERE id = ? FOR UPDATE", id).
		Scan(&it.ID, &it.OrderID, &it.BookID, &it.Quantity, &it.Price, &reserved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, ErrOrderItemNotFound
		}
		return nil, false, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE id = ?", id); err != nil {
		return nil, false, err
	}
	return it, reserved, nil
}
