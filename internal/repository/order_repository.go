package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/bookstore/internal/model"
)

const orderColumns = "id, user_id, status, created_at"

// OrderRepo handles the orders table.
type OrderRepo struct{ db *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *OrderRepo) DB() *sql.DB { return r.db }

func scanOrder(s rowScanner) (*model.Order, error) {
	var o model.Order
	if err := s.Scan(&o.ID, &o.UserID, &o.Status, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts an order for userID.  An empty status means pending.  An
// unknown user yields ErrUserNotFound.
func (r *OrderRepo) Create(ctx context.Context, userID uint64, status string) (*model.Order, error) {
	return r.create(ctx, r.db, userID, status)
}

// CreateTx is Create inside tx.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID uint64, status string) (*model.Order, error) {
	return r.create(ctx, tx, userID, status)
}

func (r *OrderRepo) create(ctx context.Context, q querier, userID uint64, status string) (*model.Order, error) {
	if status == "" {
		status = model.OrderStatusPending
	}
	res, err := q.ExecContext(ctx, "INSERT INTO orders (user_id, status) VALUES (?, ?)", userID, status)
	if err != nil {
		if isMissingReference(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.get(ctx, q, uint64(id))
}

// GetByID returns ErrOrderNotFound when id is unknown.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	return r.get(ctx, r.db, id)
}

func (r *OrderRepo) get(ctx context.Context, q querier, id uint64) (*model.Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// ListByUser returns the orders of userID, oldest first.  No orders is an
// empty slice.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = ? ORDER BY created_at, id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// UpdateStatus sets status unconditionally and returns the updated row.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) (*model.Order, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE orders SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return nil, err
	}
	if err := affected(res, ErrOrderNotFound); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the order and its items.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	return err
}

// CancelTx flips the order to cancelled unless it already is.  The returned
// order reflects the new status.
func (r *OrderRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Order, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = ? WHERE id = ? AND status <> ?",
		model.OrderStatusCancelled, id, model.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	o, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrOrderAlreadyCancelled
	}
	return o, nil
}

// ComputeTotal sums quantity * price over the order's items.  An order
// without items totals zero.  Any failure is reported as ErrTotalUnavailable.
func (r *OrderRepo) ComputeTotal(ctx context.Context, orderID uint64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(quantity * price), 0) FROM order_items WHERE order_id = ?", orderID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrTotalUnavailable, err)
	}
	return total, nil
}
