package handler

import (
	"errors"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/bookstore/internal/model"
	"github.com/iliyamo/bookstore/internal/queue"
	"github.com/iliyamo/bookstore/internal/repository"
	"github.com/iliyamo/bookstore/internal/validation"
)

// mergeLines folds repeated books into one line and orders lines by book id
// so concurrent checkouts lock rows in the same order.
func mergeLines(lines []validation.CheckoutLine) []validation.CheckoutLine {
	qty := lo.Reduce(lines, func(acc map[uint64]int, l validation.CheckoutLine, _ int) map[uint64]int {
		acc[l.BookID] += l.Quantity
		return acc
	}, map[uint64]int{})
	ids := lo.Keys(qty)
	slices.Sort(ids)
	return lo.Map(ids, func(id uint64, _ int) validation.CheckoutLine {
		return validation.CheckoutLine{BookID: id, Quantity: qty[id]}
	})
}

func orderTotal(items []model.OrderItem) decimal.Decimal {
	return lo.Reduce(items, func(acc decimal.Decimal, it model.OrderItem, _ int) decimal.Decimal {
		return acc.Add(it.Subtotal())
	}, decimal.Zero)
}

// Checkout handles POST /orders/checkout.  The order, its items and the stock
// reservations commit together or not at all.  Item prices are the book
// prices read under row lock.
func (h *OrderHandler) Checkout(c echo.Context) error {
	var req validation.CheckoutRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return badRequest(c, "Missing or invalid checkout fields", err)
	}
	lines := mergeLines(req.Items)

	ctx, cancel := dbContext(c)
	defer cancel()

	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "Error starting checkout", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := h.Orders.CreateTx(ctx, tx, req.UserID, model.OrderStatusPending)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return jsonError(c, http.StatusNotFound, "User not found")
	case err != nil:
		return internalError(c, "Error creating order", err)
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		book, err := h.Books.GetForUpdateTx(ctx, tx, l.BookID)
		switch {
		case errors.Is(err, repository.ErrBookNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Book not found", "bookId": l.BookID})
		case err != nil:
			return internalError(c, "Error reading book", err)
		}

		var oos *repository.OutOfStockError
		if err := h.Books.ReserveStockTx(ctx, tx, l.BookID, l.Quantity); err != nil {
			if errors.As(err, &oos) {
				return c.JSON(http.StatusConflict, echo.Map{
					"error":     "Book out of stock",
					"bookId":    oos.BookID,
					"requested": oos.Requested,
					"available": book.Stock,
				})
			}
			return internalError(c, "Error reserving stock", err)
		}

		it, err := h.Items.AddReservedTx(ctx, tx, order.ID, l.BookID, l.Quantity, book.Price)
		if err != nil {
			return internalError(c, "Error adding order item", err)
		}
		items = append(items, *it)
	}

	if err := tx.Commit(); err != nil {
		return internalError(c, "Error committing checkout", err)
	}
	committed = true

	total := orderTotal(items)
	h.publish(c, queue.NewOrderEvent(queue.EventOrderPlaced, *order, items, total))
	return c.JSON(http.StatusCreated, echo.Map{"order": order, "items": items, "total": total})
}

// Cancel handles POST /orders/:id/cancel.  The status flip and the stock
// restoration of every line still holding stock share one transaction.
func (h *OrderHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid order ID")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "Error starting cancellation", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	order, err := h.Orders.CancelTx(ctx, tx, id)
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		return jsonError(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, repository.ErrOrderAlreadyCancelled):
		return jsonError(c, http.StatusConflict, "Order already cancelled")
	case err != nil:
		return internalError(c, "Error cancelling order", err)
	}

	// Only checkout lines hold stock, and each gives it back once.
	released, err := h.Items.ReleaseReservedTx(ctx, tx, id)
	if err != nil {
		return internalError(c, "Error releasing reserved stock", err)
	}
	for _, it := range released {
		if err := h.Books.ReplenishStockTx(ctx, tx, it.BookID, it.Quantity); err != nil {
			return internalError(c, "Error restoring stock", err)
		}
	}
	items, err := h.Items.ListByOrderTx(ctx, tx, id)
	if err != nil {
		return internalError(c, "Error reading order items", err)
	}

	if err := tx.Commit(); err != nil {
		return internalError(c, "Error committing cancellation", err)
	}
	committed = true

	h.publish(c, queue.NewOrderEvent(queue.EventOrderCancelled, *order, items, orderTotal(items)))
	return c.JSON(http.StatusOK, order)
}
