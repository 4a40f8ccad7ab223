package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator returns the shared validator, reporting fields by their
// JSON names.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// pottyRules mirrors the writable Potty fields with their constraints.
type pottyRules struct {
	Status   string `json:"status" validate:"required,oneof=OCCUPIED VACANT"`
	Location string `json:"location" validate:"required,oneof=NORTH SOUTH EAST WEST"`
}

// ValidatePotty checks a Potty for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the potty is valid.
func ValidatePotty(p *Potty) error {
	return toValidationError(structValidator().Struct(pottyRules{
		Status:   string(p.Status),
		Location: string(p.Location),
	}))
}

// ValidateSubscriber checks that a subscriber has a non-blank URL. The URL
// format itself is not checked.
func ValidateSubscriber(s *Subscriber) error {
	err := structValidator().Var(strings.TrimSpace(s.URL), "required")
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "url", Message: "is required"}}}
	}
	return nil
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		msg := "is invalid"
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "oneof":
			msg = fmt.Sprintf("invalid value %q", fe.Value())
		}
		ve.Errors = append(ve.Errors, FieldError{Field: fe.Field(), Message: msg})
	}
	return ve
}
