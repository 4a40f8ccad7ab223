package model

import (
	"strings"
	"testing"
)

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given field.
func hasFieldError(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidatePotty_Valid(t *testing.T) {
	p := Potty{Status: StatusVacant, Location: LocationSouth}
	if err := ValidatePotty(&p); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidatePotty_Errors(t *testing.T) {
	for _, tc := range []struct {
		name   string
		potty  Potty
		fields []string
	}{
		{"missing status", Potty{Location: LocationNorth}, []string{"status"}},
		{"missing location", Potty{Status: StatusVacant}, []string{"location"}},
		{"bad status", Potty{Status: "vacant", Location: LocationNorth}, []string{"status"}},
		{"bad location", Potty{Status: StatusVacant, Location: "UP"}, []string{"location"}},
		{"both missing", Potty{}, []string{"status", "location"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			errs := fieldErrors(t, ValidatePotty(&tc.potty))
			if len(errs) != len(tc.fields) {
				t.Fatalf("got %d errors, want %d: %v", len(errs), len(tc.fields), errs)
			}
			for _, f := range tc.fields {
				if !hasFieldError(errs, f) {
					t.Errorf("missing error for field %q", f)
				}
			}
		})
	}
}

func TestValidateSubscriber(t *testing.T) {
	if err := ValidateSubscriber(&Subscriber{URL: "not even a url"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	errs := fieldErrors(t, ValidateSubscriber(&Subscriber{URL: "   "}))
	if !hasFieldError(errs, "url") {
		t.Errorf("expected url error, got %v", errs)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidatePotty(&Potty{})
	msg := err.Error()
	if !strings.HasPrefix(msg, "validation failed: ") {
		t.Errorf("unexpected message %q", msg)
	}
	if !strings.Contains(msg, "status: is required") || !strings.Contains(msg, "location: is required") {
		t.Errorf("message %q missing field errors", msg)
	}
}
