package validation

import "github.com/shopspring/decimal"

// CreateUserRequest is the payload for POST /users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required"`
}

// UpdatePasswordRequest is the payload for PUT /users/:id/password.
type UpdatePasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// BookRequest is the payload for POST /books and PUT /books/:reference.
// Stock is optional and defaults to zero.
type BookRequest struct {
	Reference   uint64          `json:"reference" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	Author      string          `json:"author" validate:"required"`
	Editor      string          `json:"editor" validate:"required"`
	Year        int             `json:"year" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0"`
	Description string          `json:"description" validate:"required"`
	Cover       string          `json:"cover" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// ReplenishRequest is the payload for PUT /books/replenish/:reference.
type ReplenishRequest struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

// CreateOrderRequest is the payload for POST /orders.  An empty status is
// stored as pending.
type CreateOrderRequest struct {
	UserID uint64 `json:"userId" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

// UpdateStatusRequest is the payload for PUT /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed cancelled"`
}

// AddOrderItemRequest is the payload for POST /order-items.  Price is a
// pointer so an explicit zero is told apart from a missing field.
type AddOrderItemRequest struct {
	OrderID  uint64           `json:"orderId" validate:"required"`
	BookID   uint64           `json:"bookId" validate:"required"`
	Quantity int              `json:"quantity" validate:"required,min=1"`
	Price    *decimal.Decimal `json:"price" validate:"required,gte=0"`
}

// CheckoutLine is one requested book in a checkout.
type CheckoutLine struct {
	BookID   uint64 `json:"bookId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// CheckoutRequest is the payload for POST /orders/checkout.
type CheckoutRequest struct {
	UserID uint64         `json:"userId" validate:"required"`
	Items  []CheckoutLine `json:"items" validate:"required,min=1,dive"`
}
