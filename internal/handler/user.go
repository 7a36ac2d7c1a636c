package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookstore/internal/config"
	"github.com/iliyamo/bookstore/internal/model"
	"github.com/iliyamo/bookstore/internal/repository"
	"github.com/iliyamo/bookstore/internal/validation"
)

// UserHandler serves /users.
type UserHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users}
}

// Create handles POST /users.
func (h *UserHandler) Create(c echo.Context) error {
	var req validation.CreateUserRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return badRequest(c, "Missing required fields", err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Username, req.Password, req.Email, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return jsonError(c, http.StatusInternalServerError, err.Error())
		}
		return internalError(c, "Error creating user", err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid user ID")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	return h.respondUser(c, u, err)
}

// GetByName handles GET /users/name/:name.
func (h *UserHandler) GetByName(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, c.Param("name"))
	return h.respondUser(c, u, err)
}

func (h *UserHandler) respondUser(c echo.Context, u *model.User, err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return jsonError(c, http.StatusNotFound, "User not found")
	case err != nil:
		return internalError(c, "Error fetching user", err)
	}
	return c.JSON(http.StatusOK, u)
}

// Delete handles DELETE /users/:id.  Unknown ids still answer 200.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid user ID")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		return internalError(c, "Error deleting user", err)
	}
	return message(c, http.StatusOK, "User deleted successfully")
}

// UpdatePassword handles PUT /users/:id/password.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid user ID")
	}
	var req validation.UpdatePasswordRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return badRequest(c, "Invalid or missing newPassword", err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	err := h.Users.UpdatePassword(ctx, id, req.NewPassword, h.Cfg.BcryptCost)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return jsonError(c, http.StatusNotFound, "User not found")
	case err != nil:
		return internalError(c, "Error updating password", err)
	}
	return message(c, http.StatusOK, "Password updated successfully")
}
