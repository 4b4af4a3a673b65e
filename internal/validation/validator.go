// package validation provides helper functions for request data validation.
// It uses the go-playground/validator library and includes custom validation
// rules for lead identifiers.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	identifierRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	phoneRe      = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{3,18}$`)
)

// init registers custom validation rules with the validator instance.
func init() {
	// "identifier" constrains external ids to alphanumerics, hyphens and
	// underscores. Empty values pass so that 'required'/'omitempty' keep
	// control over presence.
	err := validate.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			return true
		}

		return identifierRe.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register identifier validation: %v", err))
	}

	// "phone" accepts an optional leading plus followed by digits, spaces,
	// parentheses and hyphens. Deliberately loose: lead phones arrive from
	// bots in many regional formats.
	err = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			return true
		}

		return phoneRe.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register phone validation: %v", err))
	}
}

// ValidationError is a custom error type that holds a slice of validation
// error messages.
type ValidationError struct {
	Errors []string
}

// Error returns a single string concatenating all validation error messages.
func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct performs validation on a given struct based on its
// validation tags. If validation fails, it returns a *ValidationError with
// user-friendly messages.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors []string

		for _, err := range err.(validator.ValidationErrors) {
			var message string

			switch err.Tag() {
			case "identifier":
				message = fmt.Sprintf(
					"field '%s' must contain only letters, numbers, hyphens, and underscores",
					err.Field(),
				)
			case "phone":
				message = fmt.Sprintf(
					"field '%s' must be a phone number",
					err.Field(),
				)
			default:
				message = fmt.Sprintf(
					"field '%s' failed on the '%s' tag",
					err.Field(),
					err.Tag(),
				)
			}
			validationErrors = append(validationErrors, message)
		}

		return &ValidationError{Errors: validationErrors}
	}

	return nil
}
