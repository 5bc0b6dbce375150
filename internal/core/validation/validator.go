// Package validation normalises and validates request payloads before they
// reach the services. Every failure is a *domain.ValidationError naming the
// offending field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vncsmyrnk/notes/internal/core/domain"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Struct runs the struct-tag rules of s and folds every failed rule into a
// single ValidationError.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewValidationError("", err.Error())
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, describe(fe))
	}
	return domain.NewValidationError(fieldErrs[0].Field(), "Validation failed", details...)
}

// maxLength checks a rune-length bound through the validator so strings
// are measured the same way everywhere.
func maxLength(field, value string, max int) error {
	if err := validate.Var(value, fmt.Sprintf("max=%d", max)); err != nil {
		return domain.NewValidationError(field, fmt.Sprintf("%s cannot exceed %d characters", field, max))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	isList := fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if isList {
			return fmt.Sprintf("%s must contain at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if isList {
			return fmt.Sprintf("%s cannot contain more than %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case "username":
		return field + " may only contain letters, numbers and underscores"
	default:
		return field + " is invalid"
	}
}
