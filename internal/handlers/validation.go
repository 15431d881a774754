package handlers

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the decimal rules used by the request DTOs to
// gin's validator. It is safe to call more than once.
func registerValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("positive_decimal", decimalRule(decimal.Decimal.IsPositive)); err != nil {
			return
		}
		err = v.RegisterValidation("nonnegative_decimal", decimalRule(func(d decimal.Decimal) bool {
			return !d.IsNegative()
		}))
	})
	return err
}

func decimalRule(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, isDecimal := fl.Field().Interface().(decimal.Decimal)
		return isDecimal && ok(value)
	}
}
