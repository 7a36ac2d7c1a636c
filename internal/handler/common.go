// Package handler holds the Echo handlers of the bookstore API.  Handlers
// parse and validate input, call repositories and translate repository
// errors into status codes.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookstore/internal/validation"
)

const dbTimeout = 5 * time.Second

// dbContext bounds the database work of one request.
func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pathID parses the numeric path parameter name.  Zero is rejected with the
// rest of the malformed input.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// badRequest answers 400 with msg and, for validation failures, the fields
// that failed.
func badRequest(c echo.Context, msg string, err error) error {
	body := echo.Map{"error": msg}
	if fields := validation.Fields(err); len(fields) > 0 {
		body["fields"] = fields
	}
	return c.JSON(http.StatusBadRequest, body)
}

// internalError logs err and answers 500 with a generic msg.
func internalError(c echo.Context, msg string, err error) error {
	c.Logger().Errorf("%s %s: %s: %v", c.Request().Method, c.Path(), msg, err)
	return jsonError(c, http.StatusInternalServerError, msg)
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}
