package validators

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is a type alias for validator.Validate.
type Validate = validator.Validate

// ValidationErrors is a type alias for validator.ValidationErrors.
type ValidationErrors = validator.ValidationErrors

// FieldError is a type alias for validator.FieldError.
type FieldError = validator.FieldError

// TagURLPath accepts absolute request paths such as "/healthz".
const TagURLPath = "urlpath"

// New creates a new validator instance with the service's custom tags registered.
func New() *Validate {
	v := validator.New()
	_ = v.RegisterValidation(TagURLPath, isURLPath)
	return v
}

func isURLPath(fl validator.FieldLevel) bool {
	p := fl.Field().String()
	return strings.HasPrefix(p, "/") && !strings.ContainsAny(p, " ?#")
}
