package validation

import (
	"errors"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// BindAndValidate decodes the request body into out and runs the Echo
// validator over it.  The caller decides which 400 message to send.
func BindAndValidate(c echo.Context, out any) error {
	if err := c.Bind(out); err != nil {
		return err
	}
	return c.Validate(out)
}

// Fields flattens validation failures into json field -> failed tag.  Errors
// that are not validation failures yield nil.
func Fields(err error) map[string]string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
