package utils

import (
	"fmt"
	"reflect"
	"strings"

	"movie-comments/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their form tag so error keys match the
// input names in the templates
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct returns nil when data passes its validate tags
func ValidateStruct(data any) *apperror.ValidationError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	verr := apperror.NewValidationError()
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range validationErrors {
			verr.Add(fe.Field(), getErrorMessage(fe))
		}
		return verr
	}

	return verr.Add("form", err.Error())
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Minimum length is %s", err.Param())
		}
		return fmt.Sprintf("Must be at least %s", err.Param())
	case "max":
		if err.Kind() == reflect.String {
			return fmt.Sprintf("Maximum length is %s", err.Param())
		}
		return fmt.Sprintf("Must be at most %s", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}
