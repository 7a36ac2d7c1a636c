// Package router registers the HTTP routes of the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bookstore/internal/config"
	"github.com/iliyamo/bookstore/internal/handler"
	"github.com/iliyamo/bookstore/internal/middleware"
)

// scopeBooks namespaces cached catalog and stock reads.
const scopeBooks = "books"

// Handlers groups the handlers the router wires.
type Handlers struct {
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Books  *handler.BookHandler
	Orders *handler.OrderHandler
	Items  *handler.OrderItemHandler
}

// Options carries what route level middleware needs.  A nil Redis client
// turns caching off.
type Options struct {
	JWTSecret string
	Cache     config.CacheConfig
	Redis     *redis.Client
}

func (o Options) cache(scope string) echo.MiddlewareFunc {
	return middleware.NewRedisCache(o.Cache, o.Redis, scope)
}

func (o Options) purge(scopes ...string) echo.MiddlewareFunc {
	return middleware.PurgeOnWrite(o.Cache, o.Redis, scopes...)
}

// RegisterAll wires every route group.
func RegisterAll(e *echo.Echo, h Handlers, opt Options) {
	RegisterRoutes(e)
	RegisterAuth(e, h.Auth, opt.JWTSecret)
	RegisterUsers(e, h.Users)
	RegisterBooks(e, h.Books, opt)
	RegisterOrders(e, h.Orders, h.Items, opt)
}

// RegisterRoutes registers the probes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers login and the token protected /auth/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/login", a.Login)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterUsers registers /users.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler) {
	g := e.Group("/users")
	g.POST("", u.Create)
	g.GET("/name/:name", u.GetByName)
	g.GET("/:id", u.Get)
	g.DELETE("/:id", u.Delete)
	g.PUT("/:id/password", u.UpdatePassword)
}
