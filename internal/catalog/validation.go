package catalog

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Prices are sent to the API as JSON numbers and shown with two decimals,
// so accepted values stay within these bounds.
var (
	MinPrice = decimal.New(1, -2)
	MaxPrice = decimal.New(1, 12)
)

// NewValidator returns a validator that reports JSON field names and
// compares decimal prices exactly.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("price_positive", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.Sign() > 0
	})
	_ = v.RegisterValidation("price_range", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.Cmp(MinPrice) >= 0 && d.Cmp(MaxPrice) <= 0
	})
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}
