package fwm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"fwm-go/internal/model"
)

// newValidator returns a validator that understands the model's enum tags.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("food_type", func(fl validator.FieldLevel) bool {
		return model.FoodType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("meal_type", func(fl validator.FieldLevel) bool {
		return model.MealType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("claim_status", func(fl validator.FieldLevel) bool {
		return model.ClaimStatus(fl.Field().String()).Valid()
	})
	return v
}

// check validates a struct and folds field errors into one ErrValidation.
func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "food_type", "meal_type", "claim_status":
		return fmt.Sprintf("%s has unknown value %q", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
