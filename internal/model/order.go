package model

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Order statuses accepted by the orders.status check constraint.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every valid status in display order.
var OrderStatuses = []string{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled}

// ValidOrderStatus reports whether s is one of the accepted statuses.
func ValidOrderStatus(s string) bool {
	return lo.Contains(OrderStatuses, s)
}

// Order records a purchase placed by a user.  There is no stored total;
// it is recomputed from the order's items on demand.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who placed the order.
//  Status    – pending, completed or cancelled.
//  CreatedAt – creation timestamp.
type Order struct {
	ID        uint64    `json:"id"`         // orders.id
	UserID    uint64    `json:"user_id"`    // orders.user_id
	Status    string    `json:"status"`     // orders.status
	CreatedAt time.Time `json:"created_at"` // orders.created_at
}

// OrderItem is one line of an order.  Price is a snapshot taken when the
// line was added; it is not re-derived from the book afterwards.
//
// Fields:
//  ID       – primary key identifier.
//  OrderID  – owning order (cascade delete).
//  BookID   – references books.reference.
//  Quantity – number of units, always positive.
//  Price    – unit price at insert time.
type OrderItem struct {
	ID       uint64          `json:"id"`       // order_items.id
	OrderID  uint64          `json:"order_id"` // order_items.order_id
	BookID   uint64          `json:"book_id"`  // order_items.book_id
	Quantity int             `json:"quantity"` // order_items.quantity
	Price    decimal.Decimal `json:"price"`    // order_items.price
}

// Subtotal returns quantity × price for the line.
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
