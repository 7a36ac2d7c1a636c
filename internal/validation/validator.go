package validation

import (
	"reflect"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a validator that understands decimal.Decimal fields, so tags
// such as required and gt=0 apply to money values.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// EchoValidator adapts a validator to echo.Validator.
type EchoValidator struct {
	v *validatorv10.Validate
}

func NewEchoValidator() *EchoValidator { return &EchoValidator{v: New()} }

func (ev *EchoValidator) Validate(i any) error { return ev.v.Struct(i) }
