package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/recipai/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type credentialsInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type signupInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
	Username string `validate:"required"`
}

type ratingInput struct {
	Title  string `validate:"required"`
	Rating int    `validate:"min=1,max=5"`
}

type favoriteInput struct {
	Title string `validate:"required"`
}

type dealInput struct {
	Item string `validate:"required"`
}

// validateInput checks v and reports the first failing field as a validation error.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Errorf("%w: %s", model.ErrValidation, describeField(fieldErrs[0]))
	}
	return fmt.Errorf("%w: %w", model.ErrValidation, err)
}

func describeField(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "max":
		return fmt.Sprintf("%s must be between %d and %d", field, model.MinRating, model.MaxRating)
	default:
		return field + " is invalid"
	}
}
