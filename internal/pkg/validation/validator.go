package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/semesterhub/internal/pkg/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their wire name so messages match what clients send.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// Struct validates s against its `validate` tags. It returns nil when the
// struct is valid and a ValidationError listing every rejected field otherwise.
func Struct(s interface{}) *apperrors.ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	result := &apperrors.ValidationError{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			result.Add(fe.Field(), formatValidationError(fe))
		}
		return result
	}

	result.Add("request", err.Error())
	return result
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "The " + e.Field() + " field is required."
	case "min":
		if e.Kind() == reflect.String {
			return "The " + e.Field() + " field must be at least " + e.Param() + " characters."
		}
		return "The " + e.Field() + " field must be at least " + e.Param() + "."
	case "max":
		if e.Kind() == reflect.String {
			return "The " + e.Field() + " field must not be greater than " + e.Param() + " characters."
		}
		return "The " + e.Field() + " field must not be greater than " + e.Param() + "."
	case "gte":
		return "The " + e.Field() + " field must be at least " + e.Param() + "."
	case "lte":
		return "The " + e.Field() + " field must not be greater than " + e.Param() + "."
	case "email":
		return "The " + e.Field() + " field must be a valid email address."
	case "oneof":
		return "The " + e.Field() + " field must be one of: " + e.Param() + "."
	default:
		return "The " + e.Field() + " field is invalid (" + e.Tag() + ")."
	}
}
