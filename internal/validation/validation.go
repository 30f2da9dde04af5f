// Package validation evaluates the static request schemas declared as struct
// tags and escapes free text before it reaches storage.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dom/cv-builder-api/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned when a request fails its schema.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewError builds an Error for a single field.
func NewError(field, message string) *Error {
	return &Error{Fields: []FieldError{{Field: field, Message: message}}}
}

type Validator struct {
	validate *validator.Validate
	policy   *bluemonday.Policy
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("enddate", validateEndDate)
	_ = v.RegisterValidation("userrole", validateUserRole)

	return &Validator{
		validate: v,
		policy:   bluemonday.StrictPolicy(),
	}
}

// Struct validates s against its `validate` tags.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

// Clean trims s and strips any markup from it.
func (v *Validator) Clean(s string) string {
	return strings.TrimSpace(v.policy.Sanitize(strings.TrimSpace(s)))
}

// CleanPtr applies Clean to an optional value.
func (v *Validator) CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := v.Clean(*s)
	return &cleaned
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "email":
		return "Invalid email"
	case "uuid", "uuid4":
		return "Invalid user id"
	case "datetime":
		return "Invalid " + fe.Field() + ", expected YYYY-MM-DD"
	case "enddate":
		return "Invalid end date, expected YYYY-MM-DD or \"" + domain.OngoingEndDate + "\""
	case "userrole":
		return "Invalid role"
	default:
		return "Invalid value"
	}
}

func validateEndDate(fl validator.FieldLevel) bool {
	_, err := domain.ParseEndDate(fl.Field().String())
	return err == nil
}

func validateUserRole(fl validator.FieldLevel) bool {
	return domain.UserRole(strings.ToLower(fl.Field().String())).IsValid()
}
