package balancedelivery

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidAmount checks that the bound amount parses as a decimal.
// Positivity is enforced by the service layer.
var ValidAmount validator.Func = func(fieldLevel validator.FieldLevel) bool {
	if amount, ok := fieldLevel.Field().Interface().(string); ok {
		_, err := decimal.NewFromString(amount)
		return err == nil
	}

	return false
}
