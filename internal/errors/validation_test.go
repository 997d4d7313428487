package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("type", "must be a valid PTE task type", "reading_mc")

	if err.Field != "type" {
		t.Errorf("Expected field to be 'type', got '%s'", err.Field)
	}
	if err.Value != "reading_mc" {
		t.Errorf("Expected value to be 'reading_mc', got '%v'", err.Value)
	}

	expected := "validation error on field 'type': must be a valid PTE task type"
	if err.Error() != expected {
		t.Errorf("Expected error message to be '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Error() != "validation failed" {
		t.Errorf("Expected 'validation failed' for empty errors, got '%s'", errs.Error())
	}

	errs = append(errs, *NewValidationError("title", "is required", nil))
	expected := "validation failed: title is required"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for single error, got '%s'", expected, errs.Error())
	}

	errs = append(errs, *NewValidationError("time_limit", "must be at most 3600", nil))
	expected = "validation failed: 2 field errors"
	if errs.Error() != expected {
		t.Errorf("Expected '%s' for multiple errors, got '%s'", expected, errs.Error())
	}
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("difficulty", "must be Easy, Medium, or Hard", "difficulty_level", "Impossible")

	if err.Rule != "difficulty_level" {
		t.Errorf("Expected rule to be 'difficulty_level', got '%s'", err.Rule)
	}
	if err.Field != "difficulty" {
		t.Errorf("Expected field to be 'difficulty', got '%s'", err.Field)
	}
}

func TestToValidationErrors(t *testing.T) {
	type createUserRequest struct {
		Email    string `validate:"required,email"`
		FullName string `validate:"required"`
	}

	v := validator.New()
	err := v.Struct(createUserRequest{Email: "not-an-email"})
	if err == nil {
		t.Fatal("Expected validation to fail")
	}

	errs := ToValidationErrors(err)
	if len(errs) != 2 {
		t.Fatalf("Expected 2 validation errors, got %d", len(errs))
	}

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	if byField["Email"].Message != "must be a valid email address" {
		t.Errorf("Unexpected email message: '%s'", byField["Email"].Message)
	}
	if byField["FullName"].Rule != "required" {
		t.Errorf("Expected required rule, got '%s'", byField["FullName"].Rule)
	}
}
