package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidate checks service request structs. Initialized in init() with
// the custom "notblank" rule.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New(validator.WithRequiredStructEnabled())
	requestValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if err := requestValidate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
}

// validateRequest runs struct tag validation and reports the first failing
// field as an invalid ServiceError.
func validateRequest(v any) error {
	err := requestValidate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required", "notblank":
			return NewInvalidError(field + " required")
		case "email":
			return NewInvalidError("invalid email")
		case "max":
			return NewInvalidError(fmt.Sprintf("%s too long (max %s)", field, fe.Param()))
		default:
			return NewInvalidError(fmt.Sprintf("%s invalid", field))
		}
	}
	return NewInvalidError(err.Error())
}
