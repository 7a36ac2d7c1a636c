package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookstore/internal/handler"
)

// RegisterBooks registers /books.  Reads are cached under the books scope
// and every write purges it.
func RegisterBooks(e *echo.Echo, b *handler.BookHandler, opt Options) {
	g := e.Group("/books")
	read := opt.cache(scopeBooks)
	write := opt.purge(scopeBooks)

	g.GET("", b.List, read)
	g.GET("/reference/:reference", b.Get, read)
	g.GET("/search", b.Search, read)
	g.GET("/stock/:reference", b.Stock, read)

	g.POST("", b.Create, write)
	g.PUT("/consume/:reference", b.Consume, write)
	g.PUT("/replenish/:reference", b.Replenish, write)
	g.PUT("/:reference", b.Update, write)
	g.DELETE("/title/:title", b.DeleteByTitle, write)
	g.DELETE("/:reference", b.Delete, write)
}
