package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	ierr "github.com/shopbridge/mollie-gateway/internal/errors"
)

// mollie method ids: ideal, creditcard, klarnapaylater, ...
var methodPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var validate *validator.Validate

// NewValidator builds the shared validator. Field errors are reported under
// their json names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("mollie_method", func(fl validator.FieldLevel) bool {
		return methodPattern.MatchString(fl.Field().String())
	})

	validate = v
	return v
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		NewValidator()
	}

	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	details := make(map[string]any)
	var fieldErrs validator.ValidationErrors
	if ierr.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return ierr.WithError(err).
		WithHint("Request validation failed").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}
