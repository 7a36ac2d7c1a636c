package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookstore/internal/queue"
	"github.com/iliyamo/bookstore/internal/repository"
	"github.com/iliyamo/bookstore/internal/service"
	"github.com/iliyamo/bookstore/internal/validation"
)

const publishTimeout = 5 * time.Second

// OrderHandler serves /orders, including checkout and cancellation.
type OrderHandler struct {
	Orders    *repository.OrderRepo
	Items     *repository.OrderItemRepo
	Books     *repository.BookRepo
	Publisher service.Publisher
}

func NewOrderHandler(orders *repository.OrderRepo, items *repository.OrderItemRepo, books *repository.BookRepo, pub service.Publisher) *OrderHandler {
	if pub == nil {
		pub = service.NopPublisher{}
	}
	return &OrderHandler{Orders: orders, Items: items, Books: books, Publisher: pub}
}

// publish sends ev without holding up the response.  The request context is
// not reused because it ends with the response.
func (h *OrderHandler) publish(c echo.Context, ev queue.OrderEvent) {
	logger := c.Logger()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := h.Publisher.PublishOrderEvent(ctx, ev); err != nil {
			logger.Warnf("publish %s for order %d: %v", ev.Type, ev.OrderID, err)
		}
	}()
}

// Create handles POST /orders {userId, status}.  Stock is not touched.
func (h *OrderHandler) Create(c echo.Context) error {
	var req validation.CreateOrderRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return badRequest(c, "Missing or invalid order fields", err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	o, err := h.Orders.Create(ctx, req.UserID, req.Status)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return jsonError(c, http.StatusNotFound, "User not found")
	case err != nil:
		return internalError(c, "Error creating order", err)
	}
	return c.JSON(http.StatusCreated, o)
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid order ID")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	o, err := h.Orders.GetByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		return jsonError(c, http.StatusNotFound, "Order not found")
	case err != nil:
		return internalError(c, "Error fetching order", err)
	}
	return c.JSON(http.StatusOK, o)
}

// ListByUser handles GET /orders/user/:userId.  No orders is an empty array.
func (h *OrderHandler) ListByUser(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid user ID")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	orders, err := h.Orders.ListByUser(ctx, userID)
	if err != nil {
		return internalError(c, "Error fetching orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus handles PUT /orders/:id/status.  Any status may follow any
// other and stock is left alone; use Cancel to give stock back.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid order ID")
	}
	var req validation.UpdateStatusRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return badRequest(c, "Invalid order status", err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	o, err := h.Orders.UpdateStatus(ctx, id, req.Status)
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		return jsonError(c, http.StatusNotFound, "Order not found")
	case err != nil:
		return internalError(c, "Error updating order", err)
	}
	return c.JSON(http.StatusOK, o)
}

// Delete handles DELETE /orders/:id.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid order ID")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Orders.Delete(ctx, id); err != nil {
		return internalError(c, "Error deleting order", err)
	}
	return message(c, http.StatusOK, "Order deleted successfully")
}

// Total handles GET /orders/:id/total.
func (h *OrderHandler) Total(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid order ID")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	total, err := h.Orders.ComputeTotal(ctx, id)
	if err != nil {
		return internalError(c, repository.ErrTotalUnavailable.Error(), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orderId": id, "total": total})
}
