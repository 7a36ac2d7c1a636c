package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// ContextUserID is the echo.Context key JWTAuth stores the caller's id under.
const ContextUserID = "user_id"

// UserID returns the authenticated caller set by JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ContextUserID).(uint64)
	return id, ok && id > 0
}

// userKey renders the caller for rate limit keys, "anon" when unauthenticated.
func userKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
