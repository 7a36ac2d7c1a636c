package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root answers the storefront's reachability probe.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": http.StatusOK, "message": "API server OK"})
}

// Health is the plain text liveness probe.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
