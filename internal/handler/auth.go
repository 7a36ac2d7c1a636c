package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookstore/internal/config"
	"github.com/iliyamo/bookstore/internal/middleware"
	"github.com/iliyamo/bookstore/internal/model"
	"github.com/iliyamo/bookstore/internal/repository"
	"github.com/iliyamo/bookstore/internal/utils"
	"github.com/iliyamo/bookstore/internal/validation"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type authResp struct {
	User   *model.User `json:"user"`
	Access tokenPart   `json:"access"`
}

// Login verifies username and password and issues an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req validation.LoginRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return badRequest(c, "username/password required", err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, repository.ErrInvalidCredentials):
		return jsonError(c, http.StatusUnauthorized, "invalid credentials")
	case err != nil:
		return internalError(c, "query failed", err)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, h.Cfg.AccessTTLMin)
	if err != nil {
		return internalError(c, "issue access failed", err)
	}
	return c.JSON(http.StatusOK, authResp{
		User:   u,
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Me returns the user behind the bearer token (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return jsonError(c, http.StatusUnauthorized, "invalid token")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return jsonError(c, http.StatusUnauthorized, "user no longer exists")
	case err != nil:
		return internalError(c, "load user failed", err)
	}
	return c.JSON(http.StatusOK, u)
}
