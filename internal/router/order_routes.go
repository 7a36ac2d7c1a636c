package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookstore/internal/handler"
)

// RegisterOrders registers /orders and /order-items.  Order reads are not
// cached.  Checkout, cancellation and restocking deletes change stock and
// purge the books scope.
func RegisterOrders(e *echo.Echo, o *handler.OrderHandler, it *handler.OrderItemHandler, opt Options) {
	stock := opt.purge(scopeBooks)

	g := e.Group("/orders")
	g.POST("", o.Create)
	g.POST("/checkout", o.Checkout, stock)
	g.GET("/user/:userId", o.ListByUser)
	g.GET("/:id", o.Get)
	g.GET("/:id/total", o.Total)
	g.PUT("/:id/status", o.UpdateStatus)
	g.POST("/:id/cancel", o.Cancel, stock)
	g.DELETE("/:id", o.Delete)

	items := e.Group("/order-items")
	items.POST("", it.Add)
	items.GET("/order/:orderId", it.ListByOrder)
	items.DELETE("/:id", it.Delete, stock)
}
