package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookstore/internal/repository"
	"github.com/iliyamo/bookstore/internal/validation"
)

// OrderItemHandler serves /order-items.
type OrderItemHandler struct {
	Items *repository.OrderItemRepo
	Books *repository.BookRepo
}

func NewOrderItemHandler(items *repository.OrderItemRepo, books *repository.BookRepo) *OrderItemHandler {
	return &OrderItemHandler{Items: items, Books: books}
}

// Add handles POST /order-items {orderId, bookId, quantity, price}.  The
// caller's price is stored as given, zero included, and stock is not touched.
func (h *OrderItemHandler) Add(c echo.Context) error {
	var req validation.AddOrderItemRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return badRequest(c, "Missing or invalid order item fields", err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	it, err := h.Items.Add(ctx, req.OrderID, req.BookID, req.Quantity, *req.Price)
	switch {
	case errors.Is(err, repository.ErrOrderOrBookNotFound):
		return jsonError(c, http.StatusNotFound, "Order or book not found")
	case err != nil:
		return internalError(c, "Error adding order item", err)
	}
	return c.JSON(http.StatusCreated, it)
}

// ListByOrder handles GET /order-items/order/:orderId.
func (h *OrderItemHandler) ListByOrder(c echo.Context) error {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid order ID")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Items.ListByOrder(ctx, orderID)
	if err != nil {
		return internalError(c, "Error fetching order items", err)
	}
	return c.JSON(http.StatusOK, items)
}

// Delete handles DELETE /order-items/:id.  With restock=true an unknown line
// answers 404 and a line that still holds checkout stock gives its quantity
// back in the same transaction; lines added directly, or already released by
// a cancel, are deleted without touching stock.  Otherwise the delete is
// unconditional.
func (h *OrderItemHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid order item ID")
	}
	restock := false
	if raw := c.QueryParam("restock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return jsonError(c, http.StatusBadRequest, "Invalid restock flag")
		}
		restock = v
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if !restock {
		if err := h.Items.Delete(ctx, id); err != nil {
			return internalError(c, "Error deleting order item", err)
		}
		return message(c, http.StatusOK, "Order item deleted successfully")
	}

	tx, err := h.Items.DB().BeginTx(ctx, nil)
	if err != nil {
		return internalError(c, "Error starting delete", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	it, reserved, err := h.Items.DeleteTx(ctx, tx, id)
	switch {
	case errors.Is(err, repository.ErrOrderItemNotFound):
		return jsonError(c, http.StatusNotFound, "Order item not found")
	case err != nil:
		return internalError(c, "Error deleting order item", err)
	}
	if reserved {
		if err := h.Books.ReplenishStockTx(ctx, tx, it.BookID, it.Quantity); err != nil {
			return internalError(c, "Error restoring stock", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return internalError(c, "Error committing delete", err)
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"message": "Order item deleted successfully", "restocked": reserved})
}
