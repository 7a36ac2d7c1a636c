package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBook() BookRequest {
	return BookRequest{
		Reference: 1, Title: "Pride and Prejudice", Author: "Jane Austen", Editor: "penguin classics",
		Year: 1878, Price: decimal.RequireFromString("12.90"), Description: "d", Cover: "/images/cover-1.jpg",
	}
}

func TestBookRequest(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(validBook()))

	b := validBook()
	b.Cover = ""
	require.Error(t, v.Struct(b))

	b = validBook()
	b.Price = decimal.Zero
	err := v.Struct(b)
	require.Error(t, err)
	assert.Equal(t, "required", Fields(err)["Price"])

	b = validBook()
	b.Price = decimal.RequireFromString("-1")
	assert.Equal(t, "gt", Fields(v.Struct(b))["Price"])

	b = validBook()
	b.Stock = -1
	require.Error(t, v.Struct(b))
}

func TestOrderStatusEnum(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(CreateOrderRequest{UserID: 1}))
	require.NoError(t, v.Struct(CreateOrderRequest{UserID: 1, Status: "completed"}))
	require.Error(t, v.Struct(CreateOrderRequest{UserID: 1, Status: "shipped"}))
	require.Error(t, v.Struct(UpdateStatusRequest{}))
	require.NoError(t, v.Struct(UpdateStatusRequest{Status: "cancelled"}))
}

func TestCheckoutRequest(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(CheckoutRequest{UserID: 1, Items: []CheckoutLine{{BookID: 2, Quantity: 1}}}))
	require.Error(t, v.Struct(CheckoutRequest{UserID: 1}))
	require.Error(t, v.Struct(CheckoutRequest{UserID: 1, Items: []CheckoutLine{{BookID: 2, Quantity: 0}}}))
	require.Error(t, v.Struct(CheckoutRequest{Items: []CheckoutLine{{BookID: 2, Quantity: 1}}}))
}

func TestOrderItemPrice(t *testing.T) {
	v := New()
	price := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	line := AddOrderItemRequest{OrderID: 1, BookID: 2, Quantity: 1}

	assert.Equal(t, "required", Fields(v.Struct(line))["Price"])

	line.Price = price("0")
	require.NoError(t, v.Struct(line))

	line.Price = price("9.99")
	require.NoError(t, v.Struct(line))

	line.Price = price("-0.01")
	assert.Equal(t, "gte", Fields(v.Struct(line))["Price"])
}

func TestFieldsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, Fields(assert.AnError))
}

func TestBindAndValidate(t *testing.T) {
	e := echo.New()
	e.Validator = NewEchoValidator()

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"username":"ldubois","password":"Adc"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	var body CreateUserRequest
	err := BindAndValidate(e.NewContext(req, httptest.NewRecorder()), &body)
	require.Error(t, err)
	assert.Equal(t, "required", Fields(err)["Email"])

	req = httptest.NewRequest(http.MethodPost, "/orders/checkout",
		strings.NewReader(`{"userId":1,"items":[{"bookId":3,"quantity":2}]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	var co CheckoutRequest
	require.NoError(t, BindAndValidate(e.NewContext(req, httptest.NewRecorder()), &co))
	assert.Equal(t, uint64(3), co.Items[0].BookID)
}
