package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookstore/internal/model"
	"github.com/iliyamo/bookstore/internal/repository"
	"github.com/iliyamo/bookstore/internal/validation"
)

// BookHandler serves /books.
type BookHandler struct {
	Books *repository.BookRepo
}

func NewBookHandler(books *repository.BookRepo) *BookHandler { return &BookHandler{Books: books} }

func bookFromRequest(req validation.BookRequest) *model.Book {
	return &model.Book{
		Reference:   req.Reference,
		Title:       req.Title,
		Author:      req.Author,
		Editor:      req.Editor,
		Year:        req.Year,
		Price:       req.Price,
		Description: req.Description,
		Cover:       req.Cover,
		Stock:       req.Stock,
	}
}

// List handles GET /books.  An empty catalog answers 404.
func (h *BookHandler) List(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	books, err := h.Books.List(ctx)
	if err != nil {
		return internalError(c, "Error fetching books", err)
	}
	if len(books) == 0 {
		return jsonError(c, http.StatusNotFound, "No books found")
	}
	return c.JSON(http.StatusOK, books)
}

// Get handles GET /books/reference/:reference.
func (h *BookHandler) Get(c echo.Context) error {
	ref, ok := pathID(c, "reference")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid book reference")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	b, err := h.Books.GetByReference(ctx, ref)
	switch {
	case errors.Is(err, repository.ErrBookNotFound):
		return jsonError(c, http.StatusNotFound, "Book not found")
	case err != nil:
		return internalError(c, "Error fetching book", err)
	}
	return c.JSON(http.StatusOK, b)
}

// Search handles GET /books/search?title=.
func (h *BookHandler) Search(c echo.Context) error {
	title := strings.TrimSpace(c.QueryParam("title"))
	if title == "" {
		return jsonError(c, http.StatusBadRequest, "Missing title query parameter")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	books, err := h.Books.SearchByTitle(ctx, title)
	if err != nil {
		return internalError(c, "Error searching books", err)
	}
	if len(books) == 0 {
		return jsonError(c, http.StatusNotFound, "No books found with the given title")
	}
	return c.JSON(http.StatusOK, books)
}

// Create handles POST /books.
func (h *BookHandler) Create(c echo.Context) error {
	var req validation.BookRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return badRequest(c, "Missing fields to create book entry", err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	b := bookFromRequest(req)
	if err := h.Books.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrBookExists) {
			return jsonError(c, http.StatusInternalServerError, "Error creating book: reference already exists")
		}
		return internalError(c, "Error creating book", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// Update handles PUT /books/:reference.  The path reference wins over any
// reference in the body.
func (h *BookHandler) Update(c echo.Context) error {
	ref, ok := pathID(c, "reference")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid book reference")
	}
	var req validation.BookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Missing fields to update book entry", err)
	}
	req.Reference = ref
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "Missing fields to update book entry", err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	b, err := h.Books.Update(ctx, bookFromRequest(req))
	switch {
	case errors.Is(err, repository.ErrBookNotFound):
		return jsonError(c, http.StatusNotFound, "Book not found")
	case err != nil:
		return internalError(c, "Error updating book", err)
	}
	return c.JSON(http.StatusOK, b)
}

// Consume handles PUT /books/consume/:reference.
func (h *BookHandler) Consume(c echo.Context) error {
	ref, ok := pathID(c, "reference")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid book reference")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	err := h.Books.ConsumeStock(ctx, ref)
	switch {
	case errors.Is(err, repository.ErrOutOfStockOrNotFound):
		return jsonError(c, http.StatusNotFound, "Book out of stock or not found")
	case err != nil:
		return internalError(c, "Error consuming stock", err)
	}
	return message(c, http.StatusOK, "Book stock decremented")
}

// Replenish handles PUT /books/replenish/:reference {amount}.
func (h *BookHandler) Replenish(c echo.Context) error {
	ref, ok := pathID(c, "reference")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid book reference")
	}
	var req validation.ReplenishRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return badRequest(c, "Invalid amount to replenish", err)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	err := h.Books.ReplenishStock(ctx, ref, req.Amount)
	switch {
	case errors.Is(err, repository.ErrBookNotFound):
		return jsonError(c, http.StatusNotFound, "Book not found")
	case err != nil:
		return internalError(c, "Error replenishing stock", err)
	}
	return message(c, http.StatusOK, "Book stock replenished")
}

// Stock handles GET /books/stock/:reference.
func (h *BookHandler) Stock(c echo.Context) error {
	ref, ok := pathID(c, "reference")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid book reference")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	stock, err := h.Books.GetStock(ctx, ref)
	switch {
	case errors.Is(err, repository.ErrBookNotFound):
		return jsonError(c, http.StatusNotFound, "Book not found")
	case err != nil:
		return internalError(c, "Error fetching stock", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"stock": stock})
}

// Delete handles DELETE /books/:reference.
func (h *BookHandler) Delete(c echo.Context) error {
	ref, ok := pathID(c, "reference")
	if !ok {
		return jsonError(c, http.StatusBadRequest, "Invalid book reference")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if _, err := h.Books.Delete(ctx, ref); err != nil {
		if errors.Is(err, repository.ErrBookInUse) {
			return jsonError(c, http.StatusInternalServerError, "Error deleting book: referenced by existing orders")
		}
		return internalError(c, "Error deleting book", err)
	}
	return message(c, http.StatusOK, "Book deleted successfully")
}

// DeleteByTitle handles DELETE /books/title/:title.
func (h *BookHandler) DeleteByTitle(c echo.Context) error {
	title := strings.TrimSpace(c.Param("title"))
	if title == "" {
		return jsonError(c, http.StatusBadRequest, "Missing title")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	n, err := h.Books.DeleteByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, repository.ErrBookInUse) {
			return jsonError(c, http.StatusInternalServerError, "Error deleting books: referenced by existing orders")
		}
		return internalError(c, "Error deleting books", err)
	}
	c.Logger().Infof("deleted %d book(s) matching %q", n, title)
	return message(c, http.StatusOK, "Book(s) deleted successfully")
}
