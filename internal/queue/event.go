// Package queue defines the order event payload and the RabbitMQ consumer
// that records those events in the order log.
package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/bookstore/internal/model"
)

// OrderEventsQueue is the durable queue order events are routed to.
const OrderEventsQueue = "order.events"

// Event types.
const (
	EventOrderPlaced    = "order.placed"
	EventOrderCancelled = "order.cancelled"
)

// OrderEventLine is one book of an order event.
type OrderEventLine struct {
	BookID   uint64          `json:"book_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderEvent is published after a checkout or cancellation commits.  It
// carries enough to log the change without querying the database.
type OrderEvent struct {
	EventID    string           `json:"event_id"`
	Type       string           `json:"type"`
	OrderID    uint64           `json:"order_id"`
	UserID     uint64           `json:"user_id"`
	Status     string           `json:"status"`
	Items      []OrderEventLine `json:"items"`
	Total      decimal.Decimal  `json:"total"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewOrderEvent snapshots order and its items.
func NewOrderEvent(typ string, order model.Order, items []model.OrderItem, total decimal.Decimal) OrderEvent {
	return OrderEvent{
		EventID: uuid.NewString(),
		Type:    typ,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		Items: lo.Map(items, func(it model.OrderItem, _ int) OrderEventLine {
			return OrderEventLine{BookID: it.BookID, Quantity: it.Quantity, Price: it.Price}
		}),
		Total:      total,
		OccurredAt: time.Now().UTC(),
	}
}

// LogLine renders ev as one line of the order log.
func (ev OrderEvent) LogLine() string {
	books := lo.Map(ev.Items, func(l OrderEventLine, _ int) string {
		return fmt.Sprintf("%dx%d@%s", l.BookID, l.Quantity, l.Price.StringFixed(2))
	})
	return fmt.Sprintf("[%s] %s | event_id=%s | order_id=%d | user_id=%d | status=%s | total=%s | items=[%s]\n",
		ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.EventID, ev.OrderID, ev.UserID, ev.Status,
		ev.Total.StringFixed(2), strings.Join(books, ","))
}
